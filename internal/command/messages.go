package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Shimsuyeon/focus-fairy/internal/analytics"
	"github.com/Shimsuyeon/focus-fairy/internal/session"
	"github.com/Shimsuyeon/focus-fairy/internal/workspace"
)

const (
	msgUnknownCommand   = ":fairy-wish: I don't know that one. Try `/start`, `/end`, `/weekly`, `/report`, `/mystats`, `/today`, `/pattern` or `/export`."
	msgDurationFormat   = ":fairy-hourglass: I couldn't read that duration. Use something like `2h 30m`, `45m`, `2시간 30분` or `45분`."
	msgStoreUnavailable = ":fairy-zzz: The session store is catching its breath. Please try again in a moment."
	msgInternal         = ":fairy-wish: Something went wrong on my end. Please try again."
	msgNotStarted       = ":fairy-wish: No active session found. Start one with `/start`."
	msgTodayEmpty       = ":fairy-sun: Nobody has checked in yet today. Be the first with `/start`!"
)

var encouragements = []string{
	":fairy-sprout: Every focused minute plants a seed. Nice work!",
	":fairy-confetti: Another session in the books. Great job!",
	":fairy-fire: You're on fire! Keep that streak going.",
	":fairy-moon: Deep work done. Rest well, you've earned it.",
	":fairy-wand: A little focus magic goes a long way!",
	":fairy-party: That's how it's done! Celebrate the win.",
	":fairy-chart: The numbers are climbing. Love to see it!",
	":fairy-wish: Your future self says thank you.",
	":fairy-coffee: Focus first, coffee second. You nailed both.",
	":fairy-sprout: Small sessions, big growth. Keep going!",
	":fairy-fire: Momentum looks good on you!",
	":fairy-confetti: Session complete! You showed up today.",
	":fairy-wand: Consistency is the real magic. Well done!",
	":fairy-moon: Another block of deep work, another step forward.",
	":fairy-party: Solid focus! The whole team benefits.",
}

var titler = cases.Title(language.English)

func mention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}

func msgStarted(userID string, at time.Time) string {
	return fmt.Sprintf(":fairy-fire: %s checked in at %s. Focus time!", mention(userID), at.Format("15:04"))
}

func msgAlreadyActive(elapsed time.Duration) string {
	return fmt.Sprintf(":fairy-hourglass: You already have a session running (%s so far). Use `/end` to close it first.",
		session.FormatDuration(elapsed))
}

func msgConfirmLong(elapsed time.Duration) string {
	return fmt.Sprintf(":fairy-zzz: That session has been running for %s. If that's real, run `/end %s` to record it as is, or `/end 2h 30m` with the time you actually focused.",
		session.FormatDuration(elapsed), session.FormatDuration(elapsed))
}

func msgClosed(userID string, at time.Time, dur, weekTotal time.Duration, cheer string) string {
	var b strings.Builder
	fmt.Fprintf(&b, ":fairy-gold: %s checked out at %s.\n", mention(userID), at.Format("15:04"))
	fmt.Fprintf(&b, ">This session: *%s*\n", session.FormatDuration(dur))
	fmt.Fprintf(&b, ">This week: *%s*\n", session.FormatDuration(weekTotal))
	b.WriteString(cheer)
	return b.String()
}

func msgClosedAck(dur time.Duration) string {
	return fmt.Sprintf("Recorded %s. Announced to the channel. :fairy-confetti:", session.FormatDuration(dur))
}

func msgStatus(s session.Status) string {
	var b strings.Builder
	if s.Active {
		fmt.Fprintf(&b, ":fairy-fire: Session running for *%s*.\n", session.FormatDuration(s.Elapsed))
	} else {
		b.WriteString(":fairy-moon: No session running.\n")
	}
	fmt.Fprintf(&b, ">This week: *%s*\n", session.FormatDuration(s.WeekTotal))
	fmt.Fprintf(&b, ">All time: *%s*", session.FormatDuration(s.AllTime))
	return b.String()
}

func msgToday(ctx context.Context, teamID string, statuses []session.ParticipantStatus, names *workspace.NameCache) string {
	var b strings.Builder
	fmt.Fprintf(&b, ":fairy-sun: *Today's focus crew* (%d)\n", len(statuses))
	for _, s := range statuses {
		name := names.Name(ctx, teamID, s.UserID)
		if s.Active {
			fmt.Fprintf(&b, "• %s is focusing now (%s and counting) :fairy-fire:\n", name, session.FormatDuration(s.Elapsed))
		} else {
			fmt.Fprintf(&b, "• %s focused for %s today\n", name, session.FormatDuration(s.Total))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func medal(tier analytics.Tier) string {
	switch tier {
	case analytics.TierGold:
		return ":fairy-gold:"
	case analytics.TierSilver:
		return ":fairy-silver:"
	case analytics.TierBronze:
		return ":fairy-bronze:"
	default:
		return "•"
	}
}
