package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/lifeos/internal/auth"
)

// Register prompts for credentials and creates a new account.
func (a *App) Register(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	password, err := GetPassword("Enter password", a.out)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	defer wipe(password)

	if _, err := a.session.Register(ctx, username, string(password)); err != nil {
		switch {
		case errors.Is(err, auth.ErrValidation):
			printlnFn("Username and password are required.")
		case errors.Is(err, auth.ErrDuplicateUser):
			printlnFn("This username is already taken.")
		default:
			printlnFn("Registration failed:", err)
		}
		return err
	}

	printlnFn("Account created. Use 'login' to sign in.")
	return nil
}

// Login prompts for credentials and authenticates. Lockout and attempt
// counts are reported to the user, since those numbers decide whether it
// makes sense to keep trying.
func (a *App) Login(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	password, err := GetPassword("Enter password", a.out)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	defer wipe(password)

	account, err := a.session.Login(ctx, username, string(password))
	if err != nil {
		var loe *auth.LockedOutError
		var ice *auth.InvalidCredentialsError
		switch {
		case errors.As(err, &loe):
			printlnFn(fmt.Sprintf("Too many failed attempts. Try again in %s.", formatWait(loe.Remaining)))
		case errors.As(err, &ice):
			printlnFn(fmt.Sprintf("Invalid username or password (attempt %d of %d).", ice.Attempts, a.config.LockoutMaxAttempts))
		default:
			printlnFn("Login failed:", err)
		}
		return err
	}

	if err := a.data.InitializeDefaults(ctx); err != nil {
		a.log.Warn(ctx, "initialize defaults failed", "error", err)
	}

	printlnFn(fmt.Sprintf("Welcome back, %s!", account.Username))
	return nil
}

// Logout clears the session.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout()
	printlnFn("Logged out.")
	return nil
}

// ChangePassword verifies the old password and stores a new digest.
func (a *App) ChangePassword(ctx context.Context) error {
	username := ""
	if u := a.session.CurrentUser(); u != nil {
		username = u.Username
	} else {
		name, err := GetSimpleText(a.reader, "Enter user name", a.out)
		if err != nil {
			printlnFn("error:", err)
			return err
		}
		username = name
	}

	oldPw, err := GetPassword("Old password", a.out)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	defer wipe(oldPw)

	newPw, err := GetPassword("New password", a.out)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	defer wipe(newPw)

	if err := a.session.ChangePassword(ctx, username, string(oldPw), string(newPw)); err != nil {
		switch {
		case errors.Is(err, auth.ErrNotFound):
			printlnFn("No such account.")
		case errors.Is(err, auth.ErrWrongPassword):
			printlnFn("Old password is incorrect.")
		case errors.Is(err, auth.ErrValidation):
			printlnFn("New password must not be empty.")
		default:
			printlnFn("Password change failed:", err)
		}
		return err
	}

	printlnFn("Password changed.")
	return nil
}

// WhoAmI prints the current account.
func (a *App) WhoAmI(ctx context.Context) error {
	u := a.session.CurrentUser()
	if u == nil {
		printlnFn("Not logged in.")
		return nil
	}
	printlnFn(fmt.Sprintf("%s (registered %s)", u.Username, u.CreatedAt.Format("2006-01-02")))
	return nil
}

// Status reports the lockout state.
func (a *App) Status(ctx context.Context) error {
	locked, err := a.session.IsLockedOut(ctx)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	if !locked {
		printlnFn("Login available.")
		return nil
	}

	remaining, err := a.session.LockoutRemaining(ctx)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	printlnFn(fmt.Sprintf("Locked out. Try again in %s.", formatWait(remaining)))
	return nil
}

func formatWait(d time.Duration) string {
	if d < time.Minute {
		return d.Round(time.Second).String()
	}
	return d.Round(time.Minute).String()
}
