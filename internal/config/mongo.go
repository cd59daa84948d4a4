package config

// MongoConfig holds connection settings for the mongo snapshot backend.
// URI is empty unless configured; the fs backend needs none of this.
type MongoConfig struct {
	URI      string
	Database string
}

func loadMongo() MongoConfig {
	return MongoConfig{
		URI:      envOrDefault(envMongoURI, ""),
		Database: envOrDefault(envMongoDatabase, defaultMongoDatabase),
	}
}
