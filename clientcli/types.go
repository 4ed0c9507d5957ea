package clientcli

// UploadOptions configures an upload operation.
type UploadOptions struct {
	LocalPath string
	Key       string // empty = derive from LocalPath
	Recursive bool
}

// UploadResult represents the result of uploading a single file.
type UploadResult struct {
	LocalPath string `json:"local_path"`
	Key       string `json:"key"`
	Size      int64  `json:"size_bytes"`
	Err       error  `json:"-"` // nil on success
}

// DownloadOptions configures a download operation.
type DownloadOptions struct {
	Key       string
	LocalPath string // empty = derive from key, "-" = stdout
}

// DownloadResult represents the result of downloading an item.
type DownloadResult struct {
	Key         string `json:"key"`
	LocalPath   string `json:"local_path"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size_bytes"`
}

// ScriptOptions configures a client script download.
type ScriptOptions struct {
	Kind      string // "bat" or "sh"
	LocalPath string // empty = update.<kind>, "-" = stdout
}

// ScriptResult represents a downloaded client script.
type ScriptResult struct {
	Kind      string `json:"kind"`
	LocalPath string `json:"local_path"`
	Size      int64  `json:"size_bytes"`
}

// HasUploadErrors returns true if any upload failed.
func HasUploadErrors(results []UploadResult) bool {
	for i := range results {
		if results[i].Err != nil {
			return true
		}
	}
	return false
}
