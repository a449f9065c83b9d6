package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestUser_FullName(t *testing.T) {
	u := User{FirstName: "Mr.", LastName: "Test"}
	assert.Equal(t, "Mr. Test", u.FullName())
}

func TestPost_TagNames(t *testing.T) {
	p := Post{Tags: []Tag{{Name: "Evil"}, {Name: "Adventure"}}}
	assert.Equal(t, []string{"Evil", "Adventure"}, p.TagNames())
	assert.Empty(t, Post{}.TagNames())
}

func TestPostTag_TableName(t *testing.T) {
	assert.Equal(t, "post_tags", PostTag{}.TableName())
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", NewNotFoundError("Post", 4), fiber.StatusNotFound},
		{"constraint", NewConstraintViolation("title is required"), fiber.StatusBadRequest},
		{"reference", NewReferenceNotFoundError("tags", []string{"Nope"}), fiber.StatusUnprocessableEntity},
		{"bad request", NewBadRequestError("Invalid ID"), fiber.StatusBadRequest},
		{"internal", NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
		{"plain error", errors.New("boom"), fiber.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("load: %w", NewNotFoundError("Tag", 1)), fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, StatusFor(tt.err))
		})
	}
}

func TestNewReferenceNotFoundError_ListsNames(t *testing.T) {
	err := NewReferenceNotFoundError("tags", []string{"Evil", "Nope"})
	assert.Equal(t, CodeReferenceNotFound, err.Code)
	assert.Equal(t, `unknown tags: "Evil", "Nope"`, err.Error())
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("User", 1)))
	assert.False(t, IsNotFound(NewConstraintViolation("x")))
	assert.False(t, IsNotFound(nil))
}
