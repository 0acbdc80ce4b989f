package main

import (
	"os"

	"chemibot/backend/internal/app"
)

// @title          Chemibot API
// @version        1.0
// @description    Answers chemistry questions with a fine-tuned seq2seq model and keeps a short history.
// @BasePath       /
func main() {
	os.Exit(app.Run())
}
