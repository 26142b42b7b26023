package pipeline

import (
	"encoding/json"
	"sort"

	"go.uber.org/zap"
)

// stagingOnlyPlugins are known-incompatible plugins that only make sense
// inside the staging environment and must not reach production.
var stagingOnlyPlugins = []string{
	"sqlite-database-integration/load.php",
	"playground-tools/playground-tools.php",
}

// MergePlugins unions the production active-plugin list with the staging one,
// drops the staging-only plugins, deduplicates, and writes the result back to
// the staging active_plugins option.
func (p *Pipeline) MergePlugins() error {
	var prodPlugins []string
	if _, err := p.prod.GetJSON("active_plugins", &prodPlugins); err != nil {
		return err
	}

	var stagingPlugins []string
	raw, found, err := p.staging.Get("active_plugins")
	if err != nil {
		return err
	}
	if found && raw != "" {
		if err := json.Unmarshal([]byte(raw), &stagingPlugins); err != nil {
			p.logger.Warn("staging active_plugins is not a list, ignoring", zap.Error(err))
			stagingPlugins = nil
		}
	}

	merged := mergePluginLists(prodPlugins, stagingPlugins)

	data, err := json.Marshal(merged)
	if err != nil {
		return err
	}

	affected, err := p.staging.Update("active_plugins", string(data))
	if err != nil {
		return err
	}
	if !affected {
		return Errf(CodeUpdatePlugins, "staging dataset carries no active_plugins option to update")
	}

	p.logger.Info("merged active plugins", zap.Int("count", len(merged)))
	return nil
}

// mergePluginLists unions prod and staging, minus the staging-only denylist,
// deduplicated and sorted for a stable result.
func mergePluginLists(prod, staging []string) []string {
	denied := make(map[string]bool, len(stagingOnlyPlugins))
	for _, plugin := range stagingOnlyPlugins {
		denied[plugin] = true
	}

	seen := make(map[string]bool)
	merged := []string{}
	for _, plugin := range append(append([]string{}, prod...), staging...) {
		if plugin == "" || denied[plugin] || seen[plugin] {
			continue
		}
		seen[plugin] = true
		merged = append(merged, plugin)
	}

	sort.Strings(merged)
	return merged
}
