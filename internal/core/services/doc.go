// Package services contains the core application services: building and
// querying the passage index, assembling prompts, and orchestrating chat
// exchanges. Services depend only on ports, never on concrete adapters.
package services
