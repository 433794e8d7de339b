package handler

import (
	"net/http"

	"github.com/campusnet/campusnet/shared/api"
	"github.com/campusnet/campusnet/shared/domain"
	"github.com/campusnet/campusnet/shared/utils"
)

// create stores a new entity and answers 201 with the entity and, when a
// secondary effect failed, a warning.
func (h *Handler) create(w http.ResponseWriter, r *http.Request, op string, data domain.ContentCreationData) {
	created, result, err := h.content.Create(r.Context(), data)
	if err != nil {
		fail(w, r, op, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, api.MutationResponse[any]{
		Data:    h.contentView(created, data.Author.Id),
		Warning: result.Warning(),
	})
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request, op string, data domain.ContentEditData) {
	edited, result, err := h.content.Edit(r.Context(), data)
	if err != nil {
		fail(w, r, op, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.MutationResponse[any]{
		Data:    h.contentView(edited, data.Actor.Id),
		Warning: result.Warning(),
	})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request, op string, kind domain.Kind) {
	user, err := currentUser(r)
	if err != nil {
		fail(w, r, op, err)
		return
	}
	ref, err := refParam(r, kind, "docId", "indexId")
	if err != nil {
		fail(w, r, op, err)
		return
	}

	result, err := h.content.Delete(r.Context(), ref, user)
	if err != nil {
		fail(w, r, op, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.DeleteResponse{Deleted: result.Deleted, Warning: result.Warning()})
}

// editTarget collects the caller and the addressed entity of an edit.
func editTarget(r *http.Request, kind domain.Kind) (domain.ContentEditData, error) {
	user, err := currentUser(r)
	if err != nil {
		return domain.ContentEditData{}, err
	}
	ref, err := refParam(r, kind, "docId", "indexId")
	if err != nil {
		return domain.ContentEditData{}, err
	}
	return domain.ContentEditData{Kind: kind, Id: ref.Id, IndexId: ref.IndexId, Actor: user}, nil
}

// createTarget collects the caller and the parent of a new entity.
func createTarget(r *http.Request, kind domain.Kind, docParam, indexParam string) (domain.ContentCreationData, error) {
	user, err := currentUser(r)
	if err != nil {
		return domain.ContentCreationData{}, err
	}
	data := domain.ContentCreationData{Kind: kind, Author: user}
	if docParam == "" {
		return data, nil
	}
	parentKind, _ := kind.Parent()
	parent, err := refParam(r, parentKind, docParam, indexParam)
	if err != nil {
		return domain.ContentCreationData{}, err
	}
	data.ParentId, data.ParentIndexId = parent.Id, parent.IndexId
	return data, nil
}
