// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters): routing queries to a corpus,
// assembling retrieved context, generating answers, and recording
// exchanges into chat memory.
package services
