package httpserver

import "github.com/and161185/brainly/internal/model"

type signupRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type contentRequest struct {
	Link  string `json:"link"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

type deleteContentRequest struct {
	ContentID string `json:"contentId"`
}

type shareRequest struct {
	Share bool `json:"share"`
}

type shareResponse struct {
	Hash string `json:"hash"`
}

type ownerDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type contentDTO struct {
	ID    string   `json:"id"`
	Link  string   `json:"link"`
	Type  string   `json:"type"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
	User  ownerDTO `json:"userId"`
}

type contentListResponse struct {
	Content []contentDTO `json:"content"`
}

type sharedBrainResponse struct {
	Username string       `json:"username"`
	Content  []contentDTO `json:"content"`
}

func toContentDTO(c model.Content) contentDTO {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return contentDTO{
		ID:    c.ID.String(),
		Link:  c.Link,
		Type:  c.Type,
		Title: c.Title,
		Tags:  tags,
		User:  ownerDTO{ID: c.UserID.String(), Username: c.Username},
	}
}

// toContentDTOs never returns nil so lists encode as [].
func toContentDTOs(in []model.Content) []contentDTO {
	out := make([]contentDTO, 0, len(in))
	for _, c := range in {
		out = append(out, toContentDTO(c))
	}
	return out
}
