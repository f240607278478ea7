package mongo

import "go.mongodb.org/mongo-driver/mongo/options"

func indexUnique() *options.IndexOptions {
	return options.Index().SetUnique(true)
}

// indexExpireAt makes Mongo purge documents once their indexed timestamp
// passes. Used for token housekeeping so request paths never have to.
func indexExpireAt() *options.IndexOptions {
	return options.Index().SetExpireAfterSeconds(0)
}
