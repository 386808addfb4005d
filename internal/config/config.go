package config

const (
	WindowWidth  = 960
	WindowHeight = 600

	// Particle field
	ParticleCount = 80

	// Button dimensions
	ButtonWidth  = 170
	ButtonHeight = 40
	ButtonX      = 20
	ButtonY      = 44

	// Summarizer service
	DefaultServerURL = "http://localhost:5000"
)
