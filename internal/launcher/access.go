// ABOUTME: Lock code and vault operations of the controller
// ABOUTME: Server-authoritative verification when online, local comparison otherwise; no throttling

package launcher

import (
	"context"
	"crypto/subtle"

	"github.com/moullakill/bookos-dream-launcher/internal/model"
)

// IsUnlocked reports whether the UI may be shown.
func (c *Controller) IsUnlocked() bool {
	return c.lock.IsUnlocked()
}

// Lock locks the UI. It does nothing, and returns false, without a lock code.
func (c *Controller) Lock() bool {
	locked := c.lock.Lock()
	if locked {
		c.logger.Info("launcher locked")
	}
	return locked
}

// SetLockCode sets a 4-digit lock code, or removes it when code is empty.
// Removing it always leaves the launcher unlocked; setting it while unlocked
// does not lock.
func (c *Controller) SetLockCode(ctx context.Context, code string) error {
	_, err := c.UpdateSettings(ctx, model.SettingsPatch{
		LockCode: &code,
		IsLocked: model.Ptr(code != ""),
	})
	return err
}

// VerifyCode checks code and unlocks on success. When online the remote
// service decides; if that call fails, or when offline, the locally held
// code is compared. Without a lock code every code passes.
func (c *Controller) VerifyCode(ctx context.Context, code string) bool {
	settings := c.store.Settings()
	if !settings.HasLockCode() {
		c.lock.Verified(true)
		return true
	}

	valid := false
	verified := false
	if c.gateway.IsOnline() {
		res := c.gateway.VerifyLockCode(ctx, code)
		if res.OK() {
			valid, verified = res.Data.Valid, true
		} else {
			c.logger.Warn("remote verification failed, checking locally", "error", res.Err)
		}
	}
	if !verified {
		valid = subtle.ConstantTimeCompare([]byte(code), []byte(settings.LockCode)) == 1
	}

	c.lock.Verified(valid)
	if !valid {
		c.logger.Info("wrong lock code")
	}
	return valid
}

// Unlock is VerifyCode with an error result: nil on success, ErrAuthFailure
// otherwise.
func (c *Controller) Unlock(ctx context.Context, code string) error {
	if !c.VerifyCode(ctx, code) {
		return model.ErrAuthFailure
	}
	return nil
}

// TapTitle registers a tap on the vault affordance and reports whether it
// revealed the vault.
func (c *Controller) TapTitle() bool {
	revealed := c.vault.Tap()
	if revealed {
		c.logger.Debug("vault revealed")
	}
	return revealed
}

// TapElsewhere registers activity outside the vault affordance.
func (c *Controller) TapElsewhere() {
	c.vault.Miss()
}

// VaultRevealed reports whether the vault is showing.
func (c *Controller) VaultRevealed() bool {
	return c.vault.Revealed()
}

// CloseVault hides the vault.
func (c *Controller) CloseVault() {
	c.vault.Close()
}

// VaultTaps returns the taps counted toward revealing the vault.
func (c *Controller) VaultTaps() int {
	return c.vault.Count()
}

// Secrets returns the vault entries, or nil while the vault is hidden.
func (c *Controller) Secrets() []model.SecretEntry {
	if !c.vault.Revealed() {
		return nil
	}
	return c.store.Secrets()
}
