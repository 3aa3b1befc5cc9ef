package model

import "io"

// UploadedFile is a file taken from an inbound multipart form, ready to be
// written into an outbound one.
type UploadedFile struct {
	FieldName   string
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// BackendResponse is the raw reply of the inference backend or of the
// culture-match process. Body is relayed to the browser untouched.
type BackendResponse struct {
	StatusCode int
	Body       []byte
}

func (r *BackendResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// SkillGapOptions are the optional form fields the skill-gap page sends
// along with the resume.
type SkillGapOptions struct {
	TargetRole   string
	GeminiAdvice bool
}
