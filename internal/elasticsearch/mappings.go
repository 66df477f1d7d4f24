package elasticsearch

// ContentMapping returns the settings and mappings of the content index.
func ContentMapping() map[string]any {
	return map[string]any{
		"settings": defaultSettings(),
		"mappings": map[string]any{
			"properties": map[string]any{
				"id":      map[string]any{"type": "text"},
				"content": map[string]any{"type": "text"},
				"title":   map[string]any{"type": "text"},
				"charset": map[string]any{"type": "keyword"},
			},
		},
	}
}

// MetadataMapping returns the settings and mappings of the metadata index.
// Header names vary per record, so the metadata object is mapped dynamically.
func MetadataMapping() map[string]any {
	return map[string]any{
		"settings": defaultSettings(),
		"mappings": map[string]any{
			"properties": map[string]any{
				"id": map[string]any{"type": "text"},
				"metadata": map[string]any{
					"type":    "object",
					"dynamic": true,
				},
			},
		},
	}
}

func defaultSettings() map[string]any {
	return map[string]any{
		"number_of_shards":   1,
		"number_of_replicas": 0,
	}
}
