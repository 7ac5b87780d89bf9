package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Scenario() ScenarioRepository

	// Close releases any resources held by the repository
	Close() error
}
