package dto

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// MinJobDescriptionLength keeps trivially short job descriptions away from
// the scoring provider.
const MinJobDescriptionLength = 100

var validate = validator.New()

// SubmitScreeningRequest is the body of POST /api/screenings. When
// CandidateID is set the draft is re-screened and empty fields keep their
// stored values.
type SubmitScreeningRequest struct {
	CandidateID    *uuid.UUID `json:"candidate_id,omitempty"`
	Name           string     `json:"name" validate:"required_without=CandidateID,max=255"`
	Email          string     `json:"email" validate:"required_without=CandidateID,omitempty,email,max=255"`
	JobTitle       string     `json:"job_title" validate:"required_without=CandidateID,max=255"`
	JobDescription string     `json:"job_description" validate:"required_without=CandidateID,omitempty,min=100"`
	ResumeText     string     `json:"resume_text" validate:"required_without=CandidateID"`
}

// Validate trims the request and checks it. Failures come back as a map of
// json field name to message.
func (r *SubmitScreeningRequest) Validate() (map[string]string, error) {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.JobTitle = strings.TrimSpace(r.JobTitle)
	r.JobDescription = strings.TrimSpace(r.JobDescription)
	r.ResumeText = strings.TrimSpace(r.ResumeText)

	err := validate.Struct(r)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[jsonFieldName(fe.StructField())] = fieldMessage(fe)
	}
	return fields, err
}

var jsonNames = map[string]string{
	"Name":           "name",
	"Email":          "email",
	"JobTitle":       "job_title",
	"JobDescription": "job_description",
	"ResumeText":     "resume_text",
}

func jsonFieldName(field string) string {
	if name, ok := jsonNames[field]; ok {
		return name
	}
	return strings.ToLower(field)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
