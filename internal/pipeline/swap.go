package pipeline

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultExclusions returns the production tables the swap must never
// replace: the live user accounts.
func (p *Pipeline) DefaultExclusions() []string {
	return []string{
		p.db.Table("users"),
		p.db.Table("usermeta"),
	}
}

// PlanSwap builds the ordered statement list that promotes the staging tables
// into production names. exclude lists production table names to leave
// untouched; nil selects DefaultExclusions. The order is a correctness
// invariant: production tables are dropped before the renames that reuse
// their names, and leftover staging tables are dropped only after the renames
// so nothing just renamed away is deleted.
func (p *Pipeline) PlanSwap(exclude []string) ([]string, error) {
	if p.stagingTag == "" || p.stagingTag == p.db.Prefix() {
		return nil, Errf(CodeInvalidPrefix, "staging prefix %q must differ from production prefix %q",
			p.stagingTag, p.db.Prefix())
	}

	if exclude == nil {
		exclude = p.DefaultExclusions()
	}
	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[name] = true
	}

	stagingTables, err := p.db.Tables(p.stagingTag)
	if err != nil {
		return nil, err
	}
	if len(stagingTables) == 0 {
		return nil, Errf(CodeMissingTables, "no tables carry the staging prefix %q", p.stagingTag)
	}

	// Partition: tables to swap into production names, and staging tables
	// that are never renamed and therefore still exist after the renames.
	var drops, renames, leftovers []string
	for _, staging := range stagingTables {
		prod := strings.TrimPrefix(staging, p.stagingTag)
		if excluded[prod] {
			leftovers = append(leftovers, staging)
			continue
		}
		drops = append(drops, prod)
		renames = append(renames, staging)
	}

	plan := []string{"START TRANSACTION"}
	for _, prod := range drops {
		plan = append(plan, fmt.Sprintf("DROP TABLE IF EXISTS %q", prod))
	}
	for _, staging := range renames {
		prod := strings.TrimPrefix(staging, p.stagingTag)
		plan = append(plan, fmt.Sprintf("ALTER TABLE %q RENAME TO %q", staging, prod))
	}
	for _, staging := range leftovers {
		plan = append(plan, fmt.Sprintf("DROP TABLE IF EXISTS %q", staging))
	}
	plan = append(plan, "COMMIT")

	return plan, nil
}

// SwapPreview returns the sorted table sets before and after the swap would
// run, for rendering a plan diff. It shares PlanSwap's validation and
// partition rules.
func (p *Pipeline) SwapPreview(exclude []string) (before, after []string, err error) {
	if _, err := p.PlanSwap(exclude); err != nil {
		return nil, nil, err
	}

	if exclude == nil {
		exclude = p.DefaultExclusions()
	}
	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[name] = true
	}

	before, err = p.db.Tables("")
	if err != nil {
		return nil, nil, err
	}

	removed := make(map[string]bool)
	added := make(map[string]bool)
	for _, staging := range before {
		if !strings.HasPrefix(staging, p.stagingTag) {
			continue
		}
		removed[staging] = true
		if prod := strings.TrimPrefix(staging, p.stagingTag); !excluded[prod] {
			added[prod] = true
		}
	}

	for _, name := range before {
		if !removed[name] {
			after = append(after, name)
			delete(added, name)
		}
	}
	for name := range added {
		after = append(after, name)
	}
	sort.Strings(after)

	return before, after, nil
}
