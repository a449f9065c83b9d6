package server

import (
	"blogly/internal/service"

	"github.com/gofiber/fiber/v2"
)

// HomeFeed handles GET /api/
func (s *Server) HomeFeed(c *fiber.Ctx) error {
	posts, err := s.postService.GetNewestPosts(c.UserContext(), service.DefaultNewestLimit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetNewestPosts handles GET /api/posts/newest?limit=N
func (s *Server) GetNewestPosts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", service.DefaultNewestLimit)
	if limit > maxNewestLimit {
		limit = maxNewestLimit
	}

	posts, err := s.postService.GetNewestPosts(c.UserContext(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/users/:id/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID, err := s.parseID(c)
	if err != nil {
		return nil
	}
	var in service.PostInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	var in service.PostInput
	if err := parseBody(c, &in); err != nil {
		return nil
	}

	post, err := s.postService.UpdatePost(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
