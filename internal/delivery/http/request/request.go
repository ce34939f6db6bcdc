package request

type SubmitDownloadRequest struct {
	URL       string `json:"url"`
	OutputDir string `json:"output_dir"`
	Force     bool   `json:"force"`
}
