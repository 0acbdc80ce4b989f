package model

import "time"

// Prediction is one persisted question/answer pair. ID is storage-internal and is
// never sent to clients.
type Prediction struct {
	ID     string    `json:"-" bson:"_id"`
	Input  string    `json:"input" bson:"input"`
	Output string    `json:"output" bson:"output"`
	Time   time.Time `json:"time" bson:"time"`
}

// HistoryItem is the client-facing projection of a Prediction.
type HistoryItem struct {
	Input  string `json:"input" example:"What is an acid?"`
	Output string `json:"output" example:"An acid is a substance that donates protons."`
}

// User is a registered account. Password holds the bcrypt hash, never the plaintext.
type User struct {
	ID        string    `json:"-" bson:"_id"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Readiness reports the two monotonic latches of the service.
type Readiness struct {
	ModelLoaded    bool `json:"model_loaded"`
	StoreConnected bool `json:"store_connected"`
}

// Ready is true once both the model and the store have been initialized.
func (r Readiness) Ready() bool {
	return r.ModelLoaded && r.StoreConnected
}
