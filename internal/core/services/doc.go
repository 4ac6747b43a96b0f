// Package services implements the driving port interfaces.
// The session orchestrator owns the busy lock and decides when the
// requirement store and conversation log change; the settings service
// reads and writes configuration through the config store.
//
// Services depend only on ports and never on concrete adapters.
package services
