package recordings

const (
	// UploadedSubject carries one event per stored recording file.
	UploadedSubject = "recordings.uploaded"
	// UploadedQueueWorkers is the worker queue group; one worker per event.
	UploadedQueueWorkers = "recordings_workers"
)

// UploadedMessage announces a recording file written to the upload root.
type UploadedMessage struct {
	RoomID   string `json:"room_id"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
}
