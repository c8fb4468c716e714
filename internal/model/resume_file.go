package model

import "time"

// FileType classifies a stored user file.
type FileType string

const (
	FileTypeResume FileType = "resume"
)

// ResumeFile is an uploaded document stored in object storage.
type ResumeFile struct {
	ID          string   `json:"id" gorm:"primaryKey;size:36"`
	UserID      string   `json:"user_id" gorm:"not null;size:191;index"`
	FileName    string   `json:"file_name" gorm:"not null;size:512"`
	ObjectKey   string   `json:"object_key" gorm:"not null;uniqueIndex;size:1024"`
	ContentType string   `json:"content_type" gorm:"size:255"`
	SizeBytes   int64    `json:"size_bytes"`
	FileType    FileType `json:"file_type" gorm:"not null;default:resume;size:32"`

	CreatedAt time.Time `json:"created_at"`

	User *User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name.
func (ResumeFile) TableName() string {
	return "resume_files"
}

// ResumeStructure summarizes the sections found in resume text.
type ResumeStructure struct {
	WordCount          int      `json:"word_count"`
	HasContactInfo     bool     `json:"has_contact_info"`
	HasEducation       bool     `json:"has_education"`
	HasExperience      bool     `json:"has_experience"`
	HasSkills          bool     `json:"has_skills"`
	EstimatedReadTimeS int      `json:"estimated_read_time_seconds"`
	Recommendations    []string `json:"recommendations"`
}

// UploadResult is the body of POST /upload-resume.
type UploadResult struct {
	FileID        string           `json:"file_id"`
	FileName      string           `json:"file_name"`
	ObjectKey     string           `json:"object_key"`
	SizeBytes     int64            `json:"size_bytes"`
	ExtractedText string           `json:"extracted_text"`
	Structure     *ResumeStructure `json:"structure"`
}

// FileResponse is a stored file with a time-limited download URL.
type FileResponse struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	FileType    FileType  `json:"file_type"`
	SizeBytes   int64     `json:"size_bytes"`
	DownloadURL string    `json:"download_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
