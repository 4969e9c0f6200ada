// Package model holds the GORM persistence models. Every entity is owned by
// the database; in-memory copies are transient.
package model

import "github.com/google/uuid"

// ensureID assigns a fresh UUID when the caller did not provide one. Ids are
// generated application-side so the same models work on Postgres and SQLite.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
