package models

// VideoResponse is the API representation of a video record.
type VideoResponse struct {
	ID           string `json:"id"`
	VideoID      string `json:"video_id"`
	URL          string `json:"url"`
	Title        string `json:"title,omitempty"`
	Status       Status `json:"status"`
	Transcript   string `json:"transcript,omitempty"`
	Source       string `json:"source,omitempty"`
	Summary      string `json:"summary,omitempty"`
	SummaryStyle string `json:"summary_style,omitempty"`
	Error        string `json:"error,omitempty"`
}

func NewVideoResponse(v *Video) *VideoResponse {
	return &VideoResponse{
		ID:           v.ID,
		VideoID:      v.VideoID,
		URL:          v.URL,
		Title:        v.Title,
		Status:       v.Status,
		Transcript:   v.Transcript,
		Source:       string(v.Source),
		Summary:      v.Summary,
		SummaryStyle: v.SummaryStyle,
		Error:        v.Error,
	}
}
