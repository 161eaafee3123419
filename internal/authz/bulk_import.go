package authz

import (
	"context"
	"fmt"

	"vaultlink/internal/domain"
)

// bulkImport merges a batch of candidate accounts. Per-item failures do
// not abort the batch; they are counted and surfaced in the response.
type bulkImport struct {
	engine     *Engine
	session    domain.Session
	tabID      domain.TabID
	candidates []domain.ImportAccount
}

func newBulkImport(e *Engine, session domain.Session, request domain.Request) (Authorizer, error) {
	if len(request.Accounts) == 0 {
		return nil, missing("accounts")
	}
	return &bulkImport{
		engine:     e,
		session:    session,
		tabID:      request.TabID,
		candidates: request.Accounts,
	}, nil
}

func (a *bulkImport) Type() domain.MessageType   { return domain.MessageBulkImport }
func (a *bulkImport) RequiresVerification() bool { return true }

func (a *bulkImport) Prompt() string {
	return fmt.Sprintf("Import %d accounts into the vault", len(a.candidates))
}

func (a *bulkImport) Execute(ctx context.Context, _ domain.Grant, tx domain.Tx) (domain.Response, error) {
	response := domain.Response{Type: domain.MessageBulkImport, TabID: a.tabID}

	for _, candidate := range a.candidates {
		result := domain.BulkResult{TabID: a.tabID, Site: candidate.Site}

		switch {
		case candidate.Site == "":
			result.Message = "missing site"
		case candidate.Username == "":
			result.Message = "missing username"
		case candidate.Password == "":
			result.Message = "missing password"
		default:
			result.OK = true
		}
		if !result.OK {
			response.Failed++
			response.Results = append(response.Results, result)
			continue
		}

		id := AccountIDFor(candidate.Site, candidate.Username)
		if _, exists, err := a.engine.accounts.LoadAccount(id); err != nil {
			result.OK = false
			result.Message = err.Error()
			response.Failed++
			response.Results = append(response.Results, result)
			continue
		} else if exists {
			// Already present: a safe no-op, counted as succeeded.
			response.Succeeded++
			response.Results = append(response.Results, result)
			continue
		}

		now := a.engine.now().Unix()
		err := tx.SaveAccount(domain.Account{
			ID:         id,
			Site:       candidate.Site,
			Username:   candidate.Username,
			Password:   candidate.Password,
			Notes:      candidate.Notes,
			Shared:     a.session.Kind == domain.SessionTeam,
			CreatedUTC: now,
			UpdatedUTC: now,
		})
		if err != nil {
			result.OK = false
			result.Message = err.Error()
			response.Failed++
		} else {
			response.Succeeded++
		}
		response.Results = append(response.Results, result)
	}
	return response, nil
}
