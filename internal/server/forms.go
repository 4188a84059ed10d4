package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"afghanrelief/internal/utils"
	"afghanrelief/pkg/types"
)

func (s *Service) handleCreateMessage(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name    string `json:"name" form:"name"`
		Email   string `json:"email" form:"email"`
		Subject string `json:"subject" form:"subject"`
		Body    string `json:"body" form:"body"`
	}
	if err := decodeInput(r, &input); err != nil {
		s.invalid(w, "invalid form payload")
		return
	}

	name := strings.TrimSpace(input.Name)
	subject := strings.TrimSpace(input.Subject)
	body := strings.TrimSpace(input.Body)

	if !required(name) || !required(subject) || !required(body) {
		s.invalid(w, "name, subject and body are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.messagesRepo.CreateMessage(ctx, name, strings.TrimSpace(input.Email), subject, body); err != nil {
		s.logger.WithError(err).Error("failed to submit message")
		s.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (s *Service) handleCreateResearch(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name         string `json:"name" form:"name"`
		Email        string `json:"email" form:"email"`
		Organization string `json:"organization" form:"organization"`
		Title        string `json:"title" form:"title"`
		Abstract     string `json:"abstract" form:"abstract"`
		DocumentURL  string `json:"documentUrl" form:"document_url"`
	}
	if err := decodeInput(r, &input); err != nil {
		s.invalid(w, "invalid form payload")
		return
	}

	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	title := strings.TrimSpace(input.Title)
	abstract := strings.TrimSpace(input.Abstract)

	if !required(name) || !required(email) || !required(title) || !required(abstract) {
		s.invalid(w, "name, email, title and abstract are required")
		return
	}

	submission := &types.ResearchSubmission{
		Name:     name,
		Email:    email,
		Title:    title,
		Abstract: abstract,
	}
	if org := strings.TrimSpace(input.Organization); org != "" {
		submission.Organization = utils.StringPtr(org)
	}
	if docURL := strings.TrimSpace(input.DocumentURL); docURL != "" {
		submission.DocumentURL = utils.StringPtr(docURL)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.researchRepo.CreateSubmission(ctx, submission); err != nil {
		s.logger.WithError(err).Error("failed to submit research")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, submission)
}
