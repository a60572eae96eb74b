package data

import "github.com/gosimple/slug"

// Service is one entry of the static catalog that defines the universe of
// matchable pairs. Each service produces exactly two tiles: one for its name,
// one for its description.
type Service struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Services is the fixed catalog, loaded once at startup. IDs are slugs of the
// service names so they stay stable across deployments.
var Services = buildCatalog([]Service{
	{Name: "Apache Hadoop", Description: "Distributed storage and processing framework for big data", Category: "Core Platform"},
	{Name: "Apache Spark", Description: "Fast, general-purpose distributed computing system", Category: "Analytics"},
	{Name: "Apache Kafka", Description: "Distributed event streaming platform for real-time data", Category: "Data Streaming"},
	{Name: "Apache HBase", Description: "Distributed, scalable NoSQL database built on Hadoop", Category: "Database"},
	{Name: "Apache Hive", Description: "Data warehouse software for SQL-like queries on big data", Category: "Data Warehouse"},
	{Name: "Apache Impala", Description: "High-performance SQL engine for interactive analytics", Category: "Analytics"},
	{Name: "Cloudera Machine Learning", Description: "End-to-end machine learning platform for data science teams", Category: "ML/AI"},
	{Name: "Apache Kudu", Description: "Fast analytics on fast data with real-time ingest", Category: "Storage"},
})

func buildCatalog(entries []Service) []Service {
	for i := range entries {
		entries[i].ID = slug.Make(entries[i].Name)
	}
	return entries
}

// ByID returns the catalog entry for the given id, or nil if unknown.
func ByID(id string) *Service {
	for i := range Services {
		if Services[i].ID == id {
			return &Services[i]
		}
	}
	return nil
}
