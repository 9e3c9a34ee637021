package domain

// ImagePayload is the transient unit of work: raw bytes plus the
// declared content type and size, alive for a single request.
type ImagePayload struct {
	Data         []byte
	Filename     string
	ContentType  string
	DeclaredSize int64
}

type URLRequest struct {
	ImageURL string `json:"imageUrl"`
}

type ObjectRequest struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

type InfoResponse struct {
	Status    string   `json:"status"`
	Message   string   `json:"message"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
