package domain

import (
	"database/sql/driver"
	"encoding/json"
	"slices"

	"github.com/lib/pq"
)

// UserSet is a set of user ids. It is stored in postgres as BIGINT[] and
// serialized to JSON as a sorted array.
type UserSet map[UserId]struct{}

func NewUserSet(ids ...UserId) UserSet {
	s := make(UserSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s UserSet) Has(id UserId) bool {
	_, ok := s[id]
	return ok
}

// Add reports whether id was not yet a member. s must be non-nil.
func (s UserSet) Add(id UserId) bool {
	if s.Has(id) {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Remove reports whether id was a member.
func (s UserSet) Remove(id UserId) bool {
	if !s.Has(id) {
		return false
	}
	delete(s, id)
	return true
}

// Toggle flips membership of id and returns the membership after the flip.
func (s UserSet) Toggle(id UserId) bool {
	if s.Remove(id) {
		return false
	}
	s[id] = struct{}{}
	return true
}

func (s UserSet) Len() int {
	return len(s)
}

// Slice returns the members in ascending order.
func (s UserSet) Slice() []UserId {
	ids := make([]UserId, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s UserSet) Clone() UserSet {
	c := make(UserSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

func (s UserSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

func (s *UserSet) UnmarshalJSON(data []byte) error {
	var ids []UserId
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewUserSet(ids...)
	return nil
}

func (s UserSet) Value() (driver.Value, error) {
	return pq.Int64Array(s.Slice()).Value()
}

func (s *UserSet) Scan(src any) error {
	var ids pq.Int64Array
	if err := ids.Scan(src); err != nil {
		return err
	}
	*s = NewUserSet(ids...)
	return nil
}
