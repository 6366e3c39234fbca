package uid

import "github.com/google/uuid"

// GenerateGameID returns a random identifier for a game
func GenerateGameID() string {
	return uuid.NewString()
}

// GenerateConnectionID identifies one spectator connection
func GenerateConnectionID() string {
	return "conn_" + uuid.NewString()
}
