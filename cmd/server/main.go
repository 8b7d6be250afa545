// Command server runs the analysis backend: the document analysis pipeline,
// the custom dictionary service with its outbox relay, and the identity
// event consumer.
//
// Configuration comes from CONFIG_PATH (YAML) and environment variables.
// Exit codes: 0 = clean shutdown, 1 = startup or runtime error.
package main

import (
	"context"
	"log"

	"github.com/quillcheck/quillcheck-backend/internal/app"
)

func main() {
	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("server: %v", err)
	}
}
