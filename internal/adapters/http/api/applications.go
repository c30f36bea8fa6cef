package api

import (
	"net/http"
	"strings"

	"github.com/cadre-hq/cadre/internal/domain/fault"
	"github.com/cadre-hq/cadre/internal/domain/model"
)

type submitApplicationRequest struct {
	ResponseID  string `json:"response_id"`
	ApplicantID string `json:"applicant_id"`
	FormID      string `json:"form_id"`
	Role        string `json:"role"`
}

func (req submitApplicationRequest) validate() error {
	switch {
	case strings.TrimSpace(req.ResponseID) == "":
		return fault.Validationf("missing response_id")
	case strings.TrimSpace(req.ApplicantID) == "":
		return fault.Validationf("missing applicant_id")
	case strings.TrimSpace(req.FormID) == "":
		return fault.Validationf("missing form_id")
	}
	return nil
}

type applicationResponse struct {
	ResponseID string `json:"response_id"`
	FormID     string `json:"form_id"`
	Role       string `json:"role"`
	Status     string `json:"status"`
}

// handleSubmitApplication handles POST /applications.
func (s *Server) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req submitApplicationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeFault(w, err)
		return
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		writeFault(w, err)
		return
	}
	a, err := s.deps.SubmitApplication(r.Context(), req.ResponseID, req.ApplicantID, req.FormID, role)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, applicationResponse{
		ResponseID: a.ResponseID,
		FormID:     a.FormID,
		Role:       string(a.Role),
		Status:     "NotReviewed",
	})
}
