package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"soccer-memo/config"
	clH "soccer-memo/internal/clubHandlers"
	lgH "soccer-memo/internal/leagueHandlers"
	"soccer-memo/internal/listing"
	mtH "soccer-memo/internal/matchHandlers"
	"soccer-memo/internal/models"
	plH "soccer-memo/internal/playerHandlers"
	tmH "soccer-memo/internal/tempDataHandlers"
)

// Sender is the part of the Telegram API the bot talks to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// HandlersConfig groups the entity handlers.
type HandlersConfig struct {
	LeagueHandler lgH.Handler
	ClubHandler   clH.Handler
	PlayerHandler plH.Handler
	MatchHandler  mtH.Handler
}

// Bot is the Telegram front end: read commands for everyone, forms and
// deletes for the configured admins.
type Bot struct {
	API      Sender
	Config   *config.Config
	Handlers HandlersConfig
	Forms    *tmH.Store
	Now      func() time.Time

	api *tgbotapi.BotAPI
}

// NewBot connects to Telegram with the configured token.
func NewBot(cfg *config.Config, DB *gorm.DB) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TgApiToken)
	if err != nil {
		return nil, fmt.Errorf("telegram login: %w", err)
	}
	b := New(api, cfg, DB)
	b.api = api
	return b, nil
}

// New builds a bot around any Sender.
func New(api Sender, cfg *config.Config, DB *gorm.DB) *Bot {
	handler := models.Handler{DB: DB}
	return &Bot{
		API:    api,
		Config: cfg,
		Handlers: HandlersConfig{
			LeagueHandler: lgH.Handler{Handler: handler},
			ClubHandler:   clH.Handler{Handler: handler},
			PlayerHandler: plH.Handler{Handler: handler},
			MatchHandler:  mtH.Handler{Handler: handler},
		},
		Forms: tmH.NewStore(),
		Now:   time.Now,
	}
}

// Run polls for updates until ctx is done. Updates are handled one at a time.
func (b *Bot) Run(ctx context.Context) {
	log.Info().Str("account", b.api.Self.UserName).Msg("telegram bot authorised")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(update)
		}
	}
}

func (b *Bot) HandleUpdate(update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.handleMessage(update.Message)
	case update.CallbackQuery != nil:
		b.handleCallbackQuery(update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	log.Debug().Int64("chat_id", msg.Chat.ID).Str("text", msg.Text).Msg("telegram message")

	// commands always win over an open form, so /cancel and friends work mid-form
	if _, ok := b.Forms.State(msg.From.ID); ok && !msg.IsCommand() {
		b.handleFormInput(msg.Chat.ID, msg.From.ID, msg.Text)
		return
	}
	b.processCommand(msg)
}

func (b *Bot) processCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := msg.From.ID
	command := msg.Command()
	arg := strings.TrimSpace(msg.CommandArguments())

	if !msg.IsCommand() {
		b.sendMessage(chatID, "Unknown command. Try /start.")
		return
	}

	switch command {
	case "start", "help":
		b.sendStartMessage(chatID)
	case "leagues":
		b.listLeagues(chatID, arg)
	case "clubs":
		b.listClubs(chatID, arg)
	case "players":
		b.listPlayers(chatID, arg)
	case "matches":
		b.listMatches(chatID, arg)
	case "league", "club", "player", "match", "standings":
		if arg == "" {
			b.sendMessage(chatID, fmt.Sprintf("Usage: /%s <ID>", command))
			return
		}
		b.showDetail(chatID, command, arg)
	case "cancel":
		if _, ok := b.Forms.State(userID); !ok {
			b.sendMessage(chatID, "Nothing to cancel.")
			return
		}
		b.Forms.Clear(userID)
		b.sendMessage(chatID, "Cancelled.")
	case "new_league", "new_club", "new_player", "new_match":
		if !b.isAdmin(chatID) {
			b.sendMessage(chatID, "You are not allowed to use this command.")
			return
		}
		b.startForm(chatID, userID, command)
	case "delete_league", "delete_club", "delete_player", "delete_match":
		if !b.isAdmin(chatID) {
			b.sendMessage(chatID, "You are not allowed to use this command.")
			return
		}
		if arg == "" {
			b.sendMessage(chatID, fmt.Sprintf("Usage: /%s <ID>", command))
			return
		}
		b.confirmDelete(chatID, strings.TrimPrefix(command, "delete_"), arg)
	default:
		b.sendMessage(chatID, "Unknown command. Try /start.")
	}
}

func (b *Bot) showDetail(chatID int64, kind, id string) {
	var (
		text string
		err  error
	)
	switch kind {
	case "league":
		var league *models.League
		if league, err = b.Handlers.LeagueHandler.GetLeagueByID(id); err == nil {
			text = formatLeague(league)
		}
	case "standings":
		var league *models.League
		if league, err = b.Handlers.LeagueHandler.GetLeagueByID(id); err == nil {
			text = formatStandings(league, models.ComputeStandings(league.Clubs))
		}
	case "club":
		var club *models.Club
		if club, err = b.Handlers.ClubHandler.GetClubByID(id); err == nil {
			text = formatClub(club)
		}
	case "player":
		var player *models.Player
		if player, err = b.Handlers.PlayerHandler.GetPlayerByID(id); err == nil {
			text = formatPlayer(player, b.Now())
		}
	case "match":
		var match *models.Match
		if match, err = b.Handlers.MatchHandler.GetMatchByID(id); err == nil {
			text = formatMatch(match)
		}
	}
	if err != nil {
		b.sendMessage(chatID, models.UserMessage(err))
		return
	}
	b.sendMessage(chatID, text)
}

func (b *Bot) listLeagues(chatID int64, search string) {
	leagues, err := b.Handlers.LeagueHandler.ListLeagues(listing.LeagueQuery{Search: search})
	if err != nil {
		b.sendMessage(chatID, models.UserMessage(err))
		return
	}
	b.sendMessage(chatID, formatList("Leagues", len(leagues), func(i int) string {
		l := leagues[i]
		return fmt.Sprintf("%s (%s, %s)\n   /league %s", l.DisplayName(), l.DisplayCountry(), l.DisplaySeason(), l.ID)
	}))
}

func (b *Bot) listClubs(chatID int64, search string) {
	rows, err := b.Handlers.ClubHandler.ListClubs(listing.ClubQuery{Search: search, StatsSort: listing.StatsPoints})
	if err != nil {
		b.sendMessage(chatID, models.UserMessage(err))
		return
	}
	b.sendMessage(chatID, formatList("Clubs", len(rows), func(i int) string {
		r := rows[i]
		return fmt.Sprintf("%s, %s, %d pts\n   /club %s", r.DisplayName(), r.LeagueName(), r.Stats.Points, r.ID)
	}))
}

func (b *Bot) listPlayers(chatID int64, search string) {
	players, err := b.Handlers.PlayerHandler.ListPlayers(listing.PlayerQuery{Search: search})
	if err != nil {
		b.sendMessage(chatID, models.UserMessage(err))
		return
	}
	b.sendMessage(chatID, formatList("Players", len(players), func(i int) string {
		p := players[i]
		return fmt.Sprintf("%s (%s, %s)\n   /player %s", p.DisplayName(), p.DisplayPosition(), p.ClubName(), p.ID)
	}))
}

func (b *Bot) listMatches(chatID int64, search string) {
	matches, err := b.Handlers.MatchHandler.ListMatches(listing.MatchQuery{Search: search})
	if err != nil {
		b.sendMessage(chatID, models.UserMessage(err))
		return
	}
	b.sendMessage(chatID, formatList("Matches", len(matches), func(i int) string {
		m := matches[i]
		return fmt.Sprintf("%s %s\n   /match %s", m.Date.Format(dateLayout), matchLine(&m), m.ID)
	}))
}

// confirmDelete asks before deleting. The buttons carry the record kind and ID.
func (b *Bot) confirmDelete(chatID int64, kind, id string) {
	name, err := b.recordName(kind, id)
	if err != nil {
		b.sendMessage(chatID, models.UserMessage(err))
		return
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Delete %s %s? This cannot be undone.", kind, name))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Delete", fmt.Sprintf("%s%s:%s", executeRemovePrefix, kind, id)),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", cancelRemove),
		),
	)
	b.send(msg)
}

func (b *Bot) recordName(kind, id string) (string, error) {
	switch kind {
	case "league":
		league, err := b.Handlers.LeagueHandler.GetLeagueByID(id)
		if err != nil {
			return "", err
		}
		return league.DisplayName(), nil
	case "club":
		club, err := b.Handlers.ClubHandler.GetClubByID(id)
		if err != nil {
			return "", err
		}
		return club.DisplayName(), nil
	case "player":
		player, err := b.Handlers.PlayerHandler.GetPlayerByID(id)
		if err != nil {
			return "", err
		}
		return player.DisplayName(), nil
	case "match":
		match, err := b.Handlers.MatchHandler.GetMatchByID(id)
		if err != nil {
			return "", err
		}
		return matchLine(match), nil
	}
	return "", models.ErrNotFound
}

// executeRemoval handles the Delete button of a confirmation.
func (b *Bot) executeRemoval(query *tgbotapi.CallbackQuery, chatID int64, data string) {
	if !b.isAdmin(query.From.ID) {
		b.sendMessage(chatID, "You are not allowed to use this command.")
		return
	}
	kind, id, ok := strings.Cut(data, ":")
	if !ok || id == "" {
		b.sendMessage(chatID, "Unknown command. Try /start.")
		return
	}
	b.deleteRecord(chatID, kind, id)
	b.deleteMessage(query)
}

func (b *Bot) cancelRemoval(query *tgbotapi.CallbackQuery, chatID int64) {
	b.sendMessage(chatID, "Deletion cancelled.")
	b.deleteMessage(query)
}

func (b *Bot) deleteMessage(query *tgbotapi.CallbackQuery) {
	del := tgbotapi.NewDeleteMessage(query.Message.Chat.ID, query.Message.MessageID)
	if _, err := b.API.Request(del); err != nil {
		log.Warn().Err(err).Msg("delete message")
	}
}

func (b *Bot) deleteRecord(chatID int64, kind, id string) {
	var err error
	switch kind {
	case "league":
		err = b.Handlers.LeagueHandler.DeleteLeague(id)
	case "club":
		err = b.Handlers.ClubHandler.DeleteClub(id)
	case "player":
		err = b.Handlers.PlayerHandler.DeletePlayer(id)
	case "match":
		err = b.Handlers.MatchHandler.DeleteMatch(id)
	}
	if err != nil {
		b.sendMessage(chatID, models.UserMessage(err))
		return
	}
	b.sendMessage(chatID, fmt.Sprintf("Deleted %s %s.", kind, id))
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	if query.Message == nil || query.From == nil {
		return
	}
	chatID := query.Message.Chat.ID

	data := query.Data
	switch {
	case strings.HasPrefix(data, callbackPrefix):
		if _, open := b.Forms.State(query.From.ID); open {
			b.handleFormInput(chatID, query.From.ID, strings.TrimPrefix(data, callbackPrefix))
		} else {
			b.sendMessage(chatID, "This form is closed. Start again from /start.")
		}
	case strings.HasPrefix(data, executeRemovePrefix):
		b.executeRemoval(query, chatID, strings.TrimPrefix(data, executeRemovePrefix))
	case data == cancelRemove:
		b.cancelRemoval(query, chatID)
	}

	if _, err := b.API.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Warn().Err(err).Msg("answer callback")
	}
}

func (b *Bot) isAdmin(chatID int64) bool {
	return b.Config.IsAdmin(chatID)
}

func (b *Bot) sendStartMessage(chatID int64) {
	message := `Welcome to Soccer Memo!
Commands:
/leagues [search] - list leagues
/clubs [search] - list clubs by points
/players [search] - list players
/matches [search] - list matches, newest first
/league <ID> - league with its clubs
/standings <ID> - league table
/club <ID> - club with statistics
/player <ID> - player profile
/match <ID> - match details
/start - this help`
	if b.isAdmin(chatID) {
		message += `

For administrators:
/new_league, /new_club, /new_player, /new_match - add a record
/delete_league <ID>, /delete_club <ID>, /delete_player <ID>, /delete_match <ID>
/cancel - abandon the current form`
	}
	b.sendMessage(chatID, message)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.API.Send(msg); err != nil {
		log.Error().Err(err).Msg("telegram send")
	}
}

// userError is the text shown for a failed save. Validation problems keep
// their own message.
func userError(err error) string {
	if errors.Is(err, models.ErrInvalidData) {
		return models.UserMessage(err)
	}
	return models.UserMessage(err) + ". Please try again later."
}
