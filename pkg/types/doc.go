// Package types defines the entity types, value types, collaborator
// interfaces, and standard errors for the runorder scheduling system.
package types
