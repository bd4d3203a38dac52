package config

func InitializeConfig() error {
	NewLoggerService()

	return nil
}
