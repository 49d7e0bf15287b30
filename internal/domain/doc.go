// Package domain defines the core business entities of the course catalog:
// the four taxonomy entities (Organization, Difficulty, Subject, Grade), the
// Course entity with its resolved associations, and the validation errors
// shared across the application.
package domain
