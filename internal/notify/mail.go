package notify

import (
	"fmt"
	"sort"
	"strings"

	availabilitydomain "github.com/hccdispo/dispoplan/internal/availability/domain"
	planperioddomain "github.com/hccdispo/dispoplan/internal/planperiod/domain"
	teamdomain "github.com/hccdispo/dispoplan/internal/team/domain"
)

const (
	dayFormat      = "02.01.2006"
	shortDayFormat = "02.01."

	mailFooter = "--- This email was generated automatically. Please do not reply. ---"
)

var timeOfDayLabels = map[availabilitydomain.TimeOfDay]string{
	availabilitydomain.TimeOfDayMorning:   "morning",
	availabilitydomain.TimeOfDayAfternoon: "afternoon",
	availabilitydomain.TimeOfDayWholeDay:  "whole day",
	availabilitydomain.TimeOfDayEvening:   "evening",
}

func periodRange(period *planperioddomain.PlanPeriod) string {
	return fmt.Sprintf("%s - %s", period.Start.Format(dayFormat), period.End.Format(dayFormat))
}

func entryList(entries []availabilitydomain.AvailDay) string {
	if len(entries) == 0 {
		return "No days entered."
	}
	sorted := make([]availabilitydomain.AvailDay, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Day.Equal(sorted[j].Day) {
			return sorted[i].TimeOfDay < sorted[j].TimeOfDay
		}
		return sorted[i].Day.Before(sorted[j].Day)
	})

	lines := make([]string, 0, len(sorted))
	for _, entry := range sorted {
		lines = append(lines, fmt.Sprintf("%s (%s)", entry.Day.Format(dayFormat), timeOfDayLabels[entry.TimeOfDay]))
	}
	return strings.Join(lines, "\n")
}

func reminderSubject() string {
	return "Reminder: submit your availability"
}

func reminderBody(actor teamdomain.Person, dispatcher teamdomain.Person, period *planperioddomain.PlanPeriod) string {
	return fmt.Sprintf(
		"Hello %s %s,\n\n"+
			"today is the deadline for submitting your availability.\n"+
			"No response has come in yet for the following planning period:\n\n"+
			"- %s\n\n"+
			"Please take care of it today so you can be considered in the planning.\n\n"+
			"%s %s\n%s",
		actor.FirstName, actor.LastName,
		periodRange(period),
		dispatcher.FirstName, dispatcher.LastName,
		mailFooter,
	)
}

func confirmationSubject() string {
	return "Reminders sent"
}

func confirmationBody(dispatcher teamdomain.Person, period *planperioddomain.PlanPeriod, recipients []teamdomain.Person) string {
	names := make([]string, 0, len(recipients))
	for _, p := range recipients {
		names = append(names, fmt.Sprintf("%s %s", p.FirstName, p.LastName))
	}
	text := strings.Join(names, ", ")
	if text == "" {
		text = "nobody, everyone has responded"
	}
	return fmt.Sprintf(
		"Hello %s %s,\n\n"+
			"deadline reminders went out.\n"+
			"Planning period: %s\n"+
			"Recipients: %s\n\n%s",
		dispatcher.FirstName, dispatcher.LastName,
		periodRange(period),
		text,
		mailFooter,
	)
}

func distributionActorSubject(period *planperioddomain.PlanPeriod) string {
	return fmt.Sprintf("Your availability: planning %s", periodRange(period))
}

func distributionActorBody(actor teamdomain.Person, dispatcher teamdomain.Person, entries []availabilitydomain.AvailDay) string {
	return fmt.Sprintf(
		"Hello %s %s,\n\n"+
			"availability can no longer be submitted for the planning period in the subject.\n"+
			"These are the days and times you entered:\n\n"+
			"%s\n\n"+
			"%s %s\n%s",
		actor.FirstName, actor.LastName,
		entryList(entries),
		dispatcher.FirstName, dispatcher.LastName,
		mailFooter,
	)
}

func distributionDispatcherSubject(period *planperioddomain.PlanPeriod, team *teamdomain.Team) string {
	return fmt.Sprintf("Submitted availability for planning period %s, team %s", periodRange(period), team.Name)
}

func distributionDispatcherBody(responses []availabilitydomain.PersonEntries) string {
	if len(responses) == 0 {
		return "No availability was submitted."
	}
	lines := make([]string, 0, len(responses))
	for _, resp := range responses {
		days := make([]string, 0, len(resp.Days))
		for _, entry := range resp.Days {
			days = append(days, fmt.Sprintf("%s (%s)", entry.Day.Format(shortDayFormat), timeOfDayLabels[entry.TimeOfDay]))
		}
		text := strings.Join(days, ", ")
		if text == "" {
			text = "no days"
		}
		lines = append(lines, fmt.Sprintf("%s %s: %s", resp.Person.FirstName, resp.Person.LastName, text))
	}
	return strings.Join(lines, "\n")
}

func submitConfirmationSubject() string {
	return "Your availability was received"
}

func submitConfirmationBody(actor teamdomain.Person, sections []submitSection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s %s,\n\n", actor.FirstName, actor.LastName)
	b.WriteString("your availability was transferred successfully.\n")
	b.WriteString("These are the days you can currently be planned for:\n\n")
	for _, section := range sections {
		fmt.Fprintf(&b, "Period %s (deadline: %s):\n", periodRange(section.Period), section.Period.Deadline.Format(dayFormat))
		b.WriteString(entryList(section.Entries))
		notes := section.Notes
		if notes == "" {
			notes = "none"
		}
		fmt.Fprintf(&b, "\nNotes: %s\n\n", notes)
	}
	b.WriteString("You can change your availability until the deadline of each period.\n\n")
	b.WriteString(mailFooter)
	return b.String()
}

type submitSection struct {
	Period  *planperioddomain.PlanPeriod
	Entries []availabilitydomain.AvailDay
	Notes   string
}
