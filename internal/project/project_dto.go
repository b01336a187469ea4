package project

type CreateProjectRequest struct {
	Name     string `json:"name" binding:"required"`
	Customer string `json:"customer"`
	Address  string `json:"address"`
}

type UpdateProjectRequest struct {
	Name     string `json:"name" binding:"required"`
	Customer string `json:"customer"`
	Address  string `json:"address"`
	Status   string `json:"status" binding:"required,oneof=ACTIVE DONE"`
}

type AddAttachmentRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=PHOTO DOCUMENT"`
	ObjectKey   string `json:"object_key" binding:"required"`
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type"`
}

type ProjectResponse struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	Name     string `json:"name"`
	Customer string `json:"customer,omitempty"`
	Address  string `json:"address,omitempty"`
	Status   string `json:"status"`
}

type AttachmentResponse struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	Kind        string `json:"kind"`
	ObjectKey   string `json:"object_key"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type,omitempty"`
	UploadedBy  string `json:"uploaded_by"`
	CreatedAt   string `json:"created_at"`
}
