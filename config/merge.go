package config

// mergeConfigs merges override configuration into base
func mergeConfigs(base, override *Config) *Config {
	if base == nil {
		base = &Config{}
	}
	if override == nil {
		return base
	}
	result := *base

	if override.Version != "" {
		result.Version = override.Version
	}

	result.Storage = mergeStorage(base.Storage, override.Storage)

	if override.MemSaver != nil {
		merged := override.MemSaver
		if base.MemSaver != nil {
			m := base.MemSaver.Merge(*override.MemSaver)
			merged = &m
		}
		result.MemSaver = merged
	}

	result.Extensions = mergeExtensions(base.Extensions, override.Extensions)

	return &result
}

func mergeStorage(base, override *StorageConfig) *StorageConfig {
	if override == nil {
		return base
	}
	if base == nil {
		copied := *override
		return &copied
	}
	result := *base
	if override.Backend != "" {
		result.Backend = override.Backend
	}
	if override.Path != "" {
		result.Path = override.Path
	}
	if override.DebounceMs != nil {
		result.DebounceMs = override.DebounceMs
	}
	return &result
}

// mergeExtensions merges extension sections one level deep: when both sides
// hold a map for the same key their entries are combined, otherwise the
// override value replaces the base.
func mergeExtensions(base, override map[string]interface{}) map[string]interface{} {
	if len(override) == 0 {
		return base
	}
	result := make(map[string]interface{}, len(base)+len(override))
	for k, v := range base {
		result[k] = v
	}
	for key, value := range override {
		if baseMap, ok := result[key].(map[string]interface{}); ok {
			if overrideMap, ok := value.(map[string]interface{}); ok {
				mergedMap := make(map[string]interface{}, len(baseMap)+len(overrideMap))
				for k, v := range baseMap {
					mergedMap[k] = v
				}
				for k, v := range overrideMap {
					mergedMap[k] = v
				}
				result[key] = mergedMap
				continue
			}
		}
		result[key] = value
	}
	return result
}
