package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"soccer-memo/internal/forms"
	"soccer-memo/internal/listing"
	"soccer-memo/internal/models"
)

const (
	callbackPrefix      = "form:"
	executeRemovePrefix = "execute_remove:"
	cancelRemove        = "cancel_remove"
	skip                = "-"
)

// inputError is a problem with a single answer; the step is asked again.
type inputError string

func (e inputError) Error() string { return string(e) }

type step struct {
	name   string
	prompt func(b *Bot, chatID, userID int64)
	accept func(b *Bot, userID int64, input string) error
}

// flow is a multi-step admin form. fields maps a failing form field back to
// the step that asks for it.
type flow struct {
	title    string
	steps    []step
	fields   map[string]string
	defaults func(now time.Time) map[string]string
	save     func(b *Bot, userID int64) (string, error)
}

func (f *flow) index(name string) int {
	for i, s := range f.steps {
		if s.name == name {
			return i
		}
	}
	return -1
}

var flows = map[string]*flow{
	"new_league": {
		title: "league",
		steps: []step{
			textStep("name", "Enter the league name:"),
			optionalStep("country", "Enter the country (or - to skip):"),
			optionalStep("season", "Enter the season, e.g. 2024/25 (or - to skip):"),
		},
		fields: map[string]string{"Name": "name"},
		save:   saveLeague,
	},
	"new_club": {
		title: "club",
		steps: []step{
			textStep("name", "Enter the club name:"),
			{name: "league", prompt: askLeague, accept: storeChoice("league")},
		},
		fields: map[string]string{"Name": "name", "LeagueID": "league"},
		save:   saveClub,
	},
	"new_player": {
		title: "player",
		steps: []step{
			textStep("name", "Enter the player's name:"),
			{name: "position", prompt: askPosition, accept: storeText("position")},
			{name: "birth", prompt: askBirthDate, accept: acceptDate("birth")},
			{name: "height", prompt: askHeight, accept: acceptHeight},
			{name: "club", prompt: askClub, accept: storeChoice("club")},
		},
		fields: map[string]string{
			"Name": "name", "Position": "position", "BirthDate": "birth", "Height": "height", "ClubID": "club",
		},
		defaults: func(now time.Time) map[string]string {
			f := forms.NewPlayerForm(now)
			return map[string]string{
				"position": f.Position,
				"birth":    f.BirthDate.Format(dateLayout),
				"height":   strconv.Itoa(f.Height),
			}
		},
		save: savePlayer,
	},
	"new_match": {
		title: "match",
		steps: []step{
			{name: "club", prompt: askClub, accept: storeChoice("club")},
			textStep("opponent", "Enter the opponent:"),
			{name: "date", prompt: askMatchDate, accept: acceptDate("date")},
			{name: "venue", prompt: askVenue, accept: acceptVenue},
			{name: "score", prompt: askScore, accept: acceptScore},
			{name: "players", prompt: askParticipants, accept: acceptParticipants},
		},
		fields: map[string]string{
			"ClubID": "club", "Opponent": "opponent", "Date": "date",
			"HomeScore": "score", "AwayScore": "score", "PlayerIDs": "players",
		},
		defaults: func(now time.Time) map[string]string {
			f := forms.NewMatchForm(now)
			return map[string]string{"date": f.Date.Format(dateLayout), "venue": "home"}
		},
		save: saveMatch,
	},
}

func (b *Bot) startForm(chatID, userID int64, command string) {
	f := flows[command]
	var defaults map[string]string
	if f.defaults != nil {
		defaults = f.defaults(b.Now())
	}
	b.Forms.Start(userID, command+":"+f.steps[0].name, defaults)
	b.sendMessage(chatID, fmt.Sprintf("New %s. Send /cancel to stop.", f.title))
	f.steps[0].prompt(b, chatID, userID)
}

func (b *Bot) handleFormInput(chatID, userID int64, input string) {
	state, _ := b.Forms.State(userID)
	name, stepName, _ := strings.Cut(state, ":")
	f, ok := flows[name]
	if !ok || f.index(stepName) < 0 {
		b.Forms.Clear(userID)
		b.sendMessage(chatID, "Unknown form. Try /start.")
		return
	}

	i := f.index(stepName)
	if err := f.steps[i].accept(b, userID, strings.TrimSpace(input)); err != nil {
		b.sendMessage(chatID, err.Error())
		f.steps[i].prompt(b, chatID, userID)
		return
	}
	if i+1 < len(f.steps) {
		b.Forms.SetState(userID, name+":"+f.steps[i+1].name)
		f.steps[i+1].prompt(b, chatID, userID)
		return
	}

	text, err := f.save(b, userID)
	if err != nil {
		var verr *forms.ValidationError
		if errors.As(err, &verr) {
			if back := f.index(f.fields[verr.Field]); back >= 0 {
				b.sendMessage(chatID, verr.Message)
				b.Forms.SetState(userID, name+":"+f.steps[back].name)
				f.steps[back].prompt(b, chatID, userID)
				return
			}
		}
		b.Forms.Clear(userID)
		b.sendMessage(chatID, userError(err))
		return
	}
	b.Forms.Clear(userID)
	b.sendMessage(chatID, text)
}

type choice struct {
	label, value string
}

// askChoice sends text with one inline button per choice. Pressing a button
// answers the current step with the choice's value.
func (b *Bot) askChoice(chatID int64, text string, choices []choice) {
	msg := tgbotapi.NewMessage(chatID, text)
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, c := range choices {
		if i == maxListItems {
			break
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(c.label, callbackPrefix+c.value)))
	}
	if len(rows) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}
	b.send(msg)
}

func textStep(key, prompt string) step {
	return step{
		name:   key,
		prompt: func(b *Bot, chatID, _ int64) { b.sendMessage(chatID, prompt) },
		accept: storeText(key),
	}
}

func optionalStep(key, prompt string) step {
	s := textStep(key, prompt)
	s.accept = storeChoice(key)
	return s
}

func storeText(key string) func(*Bot, int64, string) error {
	return func(b *Bot, userID int64, input string) error {
		b.Forms.Set(userID, key, input)
		return nil
	}
}

// storeChoice stores the answer, with "-" meaning none.
func storeChoice(key string) func(*Bot, int64, string) error {
	return func(b *Bot, userID int64, input string) error {
		if input == skip {
			input = ""
		}
		b.Forms.Set(userID, key, input)
		return nil
	}
}

func askLeague(b *Bot, chatID, _ int64) {
	leagues, err := b.Handlers.LeagueHandler.ListLeagues(listing.LeagueQuery{})
	if err != nil {
		b.sendMessage(chatID, models.UserMessage(err))
	}
	choices := []choice{{label: "No league", value: skip}}
	for _, l := range leagues {
		choices = append(choices, choice{label: l.DisplayName(), value: l.ID})
	}
	b.askChoice(chatID, "Choose the league (or send its ID):", choices)
}

func askClub(b *Bot, chatID, _ int64) {
	rows, err := b.Handlers.ClubHandler.ListClubs(listing.ClubQuery{StatsSort: listing.StatsNone})
	if err != nil {
		b.sendMessage(chatID, models.UserMessage(err))
	}
	choices := []choice{{label: "No club", value: skip}}
	for _, r := range rows {
		choices = append(choices, choice{label: r.DisplayName(), value: r.ID})
	}
	b.askChoice(chatID, "Choose the club (or send its ID):", choices)
}

func askPosition(b *Bot, chatID, _ int64) {
	var choices []choice
	for _, p := range models.Positions {
		choices = append(choices, choice{label: string(p), value: string(p)})
	}
	b.askChoice(chatID, "Choose the position:", choices)
}

func askBirthDate(b *Bot, chatID, userID int64) {
	b.sendMessage(chatID, fmt.Sprintf("Enter the birth date as YYYY-MM-DD (- keeps %s):", b.Forms.Get(userID, "birth")))
}

func askHeight(b *Bot, chatID, userID int64) {
	b.sendMessage(chatID, fmt.Sprintf("Enter the height in cm, %d to %d (- keeps %s):",
		forms.MinHeight, forms.MaxHeight, b.Forms.Get(userID, "height")))
}

func askMatchDate(b *Bot, chatID, userID int64) {
	b.sendMessage(chatID, fmt.Sprintf("Enter the match date as YYYY-MM-DD or YYYY-MM-DD HH:MM (- keeps %s):",
		b.Forms.Get(userID, "date")))
}

func askVenue(b *Bot, chatID, _ int64) {
	b.askChoice(chatID, "Was the club playing at home or away?", []choice{
		{label: "Home", value: "home"},
		{label: "Away", value: "away"},
	})
}

func askScore(b *Bot, chatID, _ int64) {
	b.sendMessage(chatID, "Enter the score as home:away, e.g. 2:1")
}

// askParticipants lists the players of the chosen club, or every player
// when the match has no club, and remembers the numbering.
func askParticipants(b *Bot, chatID, userID int64) {
	var (
		players []models.Player
		err     error
	)
	if clubID := b.Forms.Get(userID, "club"); clubID != "" {
		var club *models.Club
		if club, err = b.Handlers.ClubHandler.GetClubByID(clubID); err == nil {
			players = club.Players
		}
	} else {
		players, err = b.Handlers.PlayerHandler.ListPlayers(listing.PlayerQuery{})
	}
	if err != nil {
		b.sendMessage(chatID, models.UserMessage(err))
	}

	ids := make([]string, len(players))
	var sb strings.Builder
	sb.WriteString("Send the numbers of the players who took part, separated by commas, or - for none.\n")
	for i, p := range players {
		ids[i] = p.ID
		fmt.Fprintf(&sb, "%d. %s %s\n", i+1, p.DisplayPosition(), p.DisplayName())
	}
	b.Forms.Set(userID, "candidates", strings.Join(ids, ","))
	b.askChoice(chatID, sb.String(), []choice{{label: "None", value: skip}})
}

func acceptDate(key string) func(*Bot, int64, string) error {
	return func(b *Bot, userID int64, input string) error {
		if input == skip {
			return nil
		}
		if _, err := parseDate(input); err != nil {
			return inputError("Invalid date. Use YYYY-MM-DD.")
		}
		b.Forms.Set(userID, key, input)
		return nil
	}
}

func acceptHeight(b *Bot, userID int64, input string) error {
	if input == skip {
		return nil
	}
	if _, err := strconv.Atoi(input); err != nil {
		return inputError("Height must be a whole number of centimetres.")
	}
	b.Forms.Set(userID, "height", input)
	return nil
}

func acceptVenue(b *Bot, userID int64, input string) error {
	switch v := strings.ToLower(input); v {
	case "home", "away":
		b.Forms.Set(userID, "venue", v)
		return nil
	default:
		return inputError("Please choose home or away.")
	}
}

func acceptScore(b *Bot, userID int64, input string) error {
	if _, _, err := parseScore(input); err != nil {
		return inputError("Enter the score as home:away, e.g. 2:1.")
	}
	b.Forms.Set(userID, "score", input)
	return nil
}

func acceptParticipants(b *Bot, userID int64, input string) error {
	if input == skip || input == "" {
		b.Forms.Set(userID, "players", "")
		return nil
	}
	var candidates []string
	if c := b.Forms.Get(userID, "candidates"); c != "" {
		candidates = strings.Split(c, ",")
	}

	var ids []string
	for _, field := range strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == ' ' }) {
		n, err := strconv.Atoi(field)
		if err != nil || n < 1 || n > len(candidates) {
			return inputError(fmt.Sprintf("%q is not a number from the list.", field))
		}
		ids = append(ids, candidates[n-1])
	}
	b.Forms.Set(userID, "players", strings.Join(ids, ","))
	return nil
}

func parseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range []string{"2006-01-02 15:04", dateLayout, "02.01.2006"} {
		var t time.Time
		if t, err = time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func parseScore(s string) (home, away int, err error) {
	h, a, ok := strings.Cut(strings.ReplaceAll(s, "-", ":"), ":")
	if !ok {
		return 0, 0, fmt.Errorf("score %q: missing separator", s)
	}
	if home, err = strconv.Atoi(strings.TrimSpace(h)); err != nil {
		return 0, 0, err
	}
	if away, err = strconv.Atoi(strings.TrimSpace(a)); err != nil {
		return 0, 0, err
	}
	return home, away, nil
}

func saveLeague(b *Bot, userID int64) (string, error) {
	league, err := b.Handlers.LeagueHandler.SaveLeague("", forms.LeagueForm{
		Name:    b.Forms.Get(userID, "name"),
		Country: b.Forms.Get(userID, "country"),
		Season:  b.Forms.Get(userID, "season"),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("League %s saved.\n/league %s", league.DisplayName(), league.ID), nil
}

func saveClub(b *Bot, userID int64) (string, error) {
	leagueID := b.Forms.Get(userID, "league")
	club, err := b.Handlers.ClubHandler.SaveClub("", forms.ClubForm{
		Name:     b.Forms.Get(userID, "name"),
		LeagueID: &leagueID,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Club %s saved.\n/club %s", club.DisplayName(), club.ID), nil
}

func savePlayer(b *Bot, userID int64) (string, error) {
	birth, _ := parseDate(b.Forms.Get(userID, "birth"))
	height, _ := strconv.Atoi(b.Forms.Get(userID, "height"))
	player, err := b.Handlers.PlayerHandler.SavePlayer("", forms.PlayerForm{
		Name:      b.Forms.Get(userID, "name"),
		Position:  b.Forms.Get(userID, "position"),
		BirthDate: birth,
		Height:    height,
		ClubID:    b.Forms.Get(userID, "club"),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Player %s saved.\n/player %s", player.DisplayName(), player.ID), nil
}

func saveMatch(b *Bot, userID int64) (string, error) {
	date, _ := parseDate(b.Forms.Get(userID, "date"))
	home, away, _ := parseScore(b.Forms.Get(userID, "score"))
	var playerIDs []string
	if p := b.Forms.Get(userID, "players"); p != "" {
		playerIDs = strings.Split(p, ",")
	}

	match, err := b.Handlers.MatchHandler.SaveMatch("", forms.MatchForm{
		Date:      date,
		Opponent:  b.Forms.Get(userID, "opponent"),
		IsHome:    b.Forms.Get(userID, "venue") != "away",
		HomeScore: home,
		AwayScore: away,
		ClubID:    b.Forms.Get(userID, "club"),
		PlayerIDs: playerIDs,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Match saved: %s\n/match %s", matchLine(match), match.ID), nil
}
