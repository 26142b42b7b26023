package pipeline

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/stagekit/stagekit/internal/connection"
)

// RemapOwnership reassigns every staging post and link to the connection
// owner, so imported content belongs to a real production account. Zero
// affected rows is valid; only a failing update is an error. Returns the
// resolved owner ID.
func (p *Pipeline) RemapOwnership() (int64, error) {
	if p.conn == nil {
		return 0, Errf(CodeJetpackMissing, "connection manager is not available")
	}

	owner, err := p.conn.OwnerID()
	if err != nil {
		if errors.Is(err, connection.ErrNotConnected) {
			return 0, Errf(CodeNotConnected, "no connection owner; connect the site first")
		}
		return 0, fmt.Errorf("failed to resolve connection owner: %w", err)
	}

	if err := p.reassign(p.stagingTable("posts"), "post_author", owner, CodeUpdatePosts); err != nil {
		return owner, err
	}
	if err := p.reassign(p.stagingTable("links"), "link_owner", owner, CodeUpdateLinks); err != nil {
		return owner, err
	}

	return owner, nil
}

func (p *Pipeline) reassign(table, column string, owner int64, failCode string) error {
	query := fmt.Sprintf("UPDATE %q SET %q = ?", table, column)
	res, err := p.db.Exec(query, owner)
	if err != nil {
		return Errf(failCode, "failed to update %s: %v", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Errf(failCode, "failed to read affected rows for %s: %v", table, err)
	}
	p.logger.Info("reassigned ownership",
		zap.String("table", table),
		zap.Int64("owner", owner),
		zap.Int64("rows", n))
	return nil
}
