package app

import "github.com/google/uuid"

// BotPlayer is the seat holder for the engine in bot games.
const BotPlayer = "@bot"

func newGameID() string { return uuid.NewString() }

// NewPlayerID returns a fresh identifier for a human player.
func NewPlayerID() string { return uuid.NewString() }
