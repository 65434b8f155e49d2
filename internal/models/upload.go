package models

// Upload records a stored object. Usage distinguishes payment proofs from
// avatars; Bucket names the backing container.
type Upload struct {
	BaseModel
	UserID      string `gorm:"not null;index"`
	Bucket      string `gorm:"not null;index"`
	Path        string `gorm:"not null;uniqueIndex"`
	FileName    string `gorm:"not null"`
	ContentType string
	Size        int64
	Usage       string `gorm:"type:varchar(30)"` // payment-proof, avatar
}
