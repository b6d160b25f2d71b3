// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"inkwell/internal/apperr"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// maxPerPage caps the per_page query parameter.
const maxPerPage = 100

type dataEnvelope struct {
	Data any `json:"data"`
}

type pageEnvelope struct {
	Data any      `json:"data"`
	Meta pageMeta `json:"meta"`
}

type errorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// pageMeta describes one page of a list response.
type pageMeta struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// writeJSON writes payload as JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

// writeError converts err into the JSON error envelope. Domain errors keep
// their status and message; anything else becomes a 500 whose cause is
// logged and never sent.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	ae := apperr.As(err)
	if ae.HTTPStatus >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"code", ae.Code,
			"error", ae.Cause,
		)
	}
	writeJSON(w, ae.HTTPStatus, errorEnvelope{Error: ae.Message, Code: ae.Code})
}

// decodeJSON reads a single JSON object from the request body into dst.
// Unknown fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.Validation("request body too large")
		}
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is empty")
		}
		return apperr.Validation("invalid JSON body: %v", err)
	}
	if dec.More() {
		return apperr.Validation("request body must contain a single JSON object")
	}
	return nil
}

// pageParams reads ?page= and ?per_page=, defaulting to the first page of
// defaultSize items.
func pageParams(r *http.Request, defaultSize int) (page, perPage int, err error) {
	page, perPage = 1, defaultSize
	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil || page < 1 {
			return 0, 0, apperr.Validation("page must be a positive integer")
		}
	}
	if v := q.Get("per_page"); v != "" {
		perPage, err = strconv.Atoi(v)
		if err != nil || perPage < 1 || perPage > maxPerPage {
			return 0, 0, apperr.Validation("per_page must be between 1 and %d", maxPerPage)
		}
	}
	return page, perPage, nil
}

// paginate slices items to the requested page. Pages past the end are empty.
func paginate[T any](items []T, page, perPage int) ([]T, pageMeta) {
	total := len(items)
	meta := pageMeta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	}
	// Compare page numbers before multiplying so a huge page cannot overflow.
	if page < 1 || page > meta.TotalPages {
		return []T{}, meta
	}
	start := (page - 1) * perPage
	end := min(start+perPage, total)
	return items[start:end], meta
}
