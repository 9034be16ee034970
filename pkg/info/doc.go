// Package info holds the plugin's self-description: its type, localized
// name and description, capabilities and developer contact.
//
// Name and description are callbacks so that they resolve through the
// translator in whatever language is active when the info is read:
//
//	err := info.Configure(
//		info.PluginTypeIntegration,
//		func() string { return translations.Get("info", "Plugin name") },
//		func() string { return translations.Get("info", "Plugin integration description") },
//		map[string]any{"countries": []string{"RU", "US"}},
//		developer,
//	)
//
// A Manifest is the static YAML snapshot of the info, used when publishing
// a plugin.
package info
