package pipeline

import "go.uber.org/zap"

// jetpackOptionNames are the connection options copied from production into
// staging so the connection survives the swap.
var jetpackOptionNames = []string{
	"jetpack_active_modules",
	"jetpack_options",
	"jetpack_private_options",
}

// PreserveOptions copies the connection options from the production option
// store into the staging store, keyed by option name. Production carrying
// none of them is a no-op, not an error; finding some but saving none fails.
func (p *Pipeline) PreserveOptions() error {
	type pair struct{ name, value string }
	var found []pair

	for _, name := range jetpackOptionNames {
		value, ok, err := p.prod.Get(name)
		if err != nil {
			return err
		}
		if ok {
			found = append(found, pair{name, value})
		}
	}

	if len(found) == 0 {
		p.logger.Info("no connection options to preserve")
		return nil
	}

	saved := 0
	for _, opt := range found {
		if err := p.staging.Upsert(opt.name, opt.value); err != nil {
			p.logger.Warn("failed to preserve option", zap.String("option", opt.name), zap.Error(err))
			continue
		}
		saved++
	}

	if saved == 0 {
		return Errf(CodeSaveJetpackOption, "found %d connection options but saved none", len(found))
	}

	p.logger.Info("preserved connection options", zap.Int("count", saved))
	return nil
}
