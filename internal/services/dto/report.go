package dto

// BucketUsage is one bucket's line in the storage usage report.
type BucketUsage struct {
	Bucket      string `json:"bucket"`
	ObjectCount int64  `json:"object_count"`
	TotalSize   int64  `json:"total_size"`
	ReadOnly    bool   `json:"read_only"`
}

type StorageUsageResponse struct {
	Buckets   []BucketUsage `json:"buckets"`
	TotalSize int64         `json:"total_size"`
}

type UploadResponse struct {
	ID          string `json:"id"`
	Bucket      string `json:"bucket"`
	Path        string `json:"path"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Usage       string `json:"usage"`
	URL         string `json:"url,omitempty"`
}
