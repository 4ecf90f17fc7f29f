package utils

import "github.com/google/uuid"

// GenerateRandomID returns a random opaque identifier for users and todos.
func GenerateRandomID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
