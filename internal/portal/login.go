package portal

import (
	"context"
	"log/slog"

	"github.com/pavelanni/hwhelper/internal/i18n"
	"github.com/pavelanni/hwhelper/internal/output"
)

// sliderDistance is how far the captcha slider is dragged to unlock the login button.
const sliderDistance = 300

// Credentials identify a student account on the portal.
type Credentials struct {
	School   string
	Username string
	Password string
}

// Login fills the login form, solves the slider and waits for the account menu.
func (c *Client) Login(ctx context.Context, cred Credentials) error {
	err := c.step(ctx, "open login page", func(ctx context.Context) error {
		if err := c.b.Navigate(ctx, c.cfg.LoginURL); err != nil {
			return err
		}
		return c.b.WaitPresent(ctx, c.sel.LoginButton)
	})
	if err != nil {
		return err
	}

	err = c.step(ctx, "fill login form", func(ctx context.Context) error {
		if err := c.b.SendKeys(ctx, c.sel.School, cred.School); err != nil {
			return err
		}
		if err := c.b.WaitVisible(ctx, c.sel.SchoolItem); err != nil {
			return err
		}
		if err := c.b.Click(ctx, c.sel.SchoolItem); err != nil {
			return err
		}
		if err := c.b.SendKeys(ctx, c.sel.Account, cred.Username); err != nil {
			return err
		}
		return c.b.SendKeys(ctx, c.sel.Password, cred.Password)
	})
	if err != nil {
		return err
	}

	err = c.step(ctx, "unlock slider", func(ctx context.Context) error {
		if err := c.b.WaitPresent(ctx, c.sel.SliderHandle); err != nil {
			return err
		}
		return c.b.DragBy(ctx, c.sel.SliderHandle, sliderDistance)
	})
	if err != nil {
		return err
	}

	err = c.step(ctx, "submit login", func(ctx context.Context) error {
		if err := c.b.Click(ctx, c.sel.LoginButton); err != nil {
			return err
		}
		if err := c.b.WaitPresent(ctx, c.sel.AccountDropdown); err != nil {
			return err
		}
		return c.b.PressEscape(ctx)
	})
	if err != nil {
		return err
	}
	slog.Info("logged in", "school", cred.School, "username", cred.Username)
	output.Success(c.sink, i18n.Td(ctx, "LoggedIn", map[string]any{"User": cred.Username}))
	return nil
}

// Logout signs the current account out. It is a no-op when nobody is logged in.
func (c *Client) Logout(ctx context.Context) error {
	var present bool
	err := c.step(ctx, "check account menu", func(ctx context.Context) error {
		var err error
		present, err = c.b.Exists(ctx, c.sel.AccountDropdown)
		return err
	})
	if err != nil {
		return err
	}
	if !present {
		output.Warn(c.sink, i18n.T(ctx, "NotLoggedIn"))
		return nil
	}

	err = c.step(ctx, "log out", func(ctx context.Context) error {
		if err := c.b.Click(ctx, c.sel.AccountDropdown); err != nil {
			return err
		}
		if err := c.b.Click(ctx, c.sel.LogoutButton); err != nil {
			return err
		}
		if err := c.b.Click(ctx, c.sel.LogoutConfirm); err != nil {
			return err
		}
		return c.b.WaitPresent(ctx, c.sel.LoginButton)
	})
	if err != nil {
		return err
	}
	output.Success(c.sink, i18n.T(ctx, "LoggedOut"))
	return nil
}
