package mcp

import (
	"context"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools adds all game tools for sess to the MCP server.
func RegisterTools(s *server.MCPServer, sess *Session) {
	s.AddTool(startGameTool(), sess.handleStartGame)
	s.AddTool(takeActionTool(), sess.handleTakeAction)
	s.AddTool(legalActionsTool(), sess.handleLegalActions)
	s.AddTool(observeTool(), sess.handleObserve)
	s.AddTool(getGameStateTool(), sess.handleGetGameState)
}

// --- Tool definitions ---

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a new game, replacing any running one. Returns the initial state, the events so far "+
			"and the legal actions for your first decision. Seats you do not play are moved by a built-in agent."),
		mcp.WithNumber("players", mcp.Description("Number of seats, at least 2 (default 2)")),
		mcp.WithNumber("seed", mcp.Description("Seed for the deck shuffle (default 1)")),
		mcp.WithNumber("seat", mcp.Description("Seat you play, 0-based; -1 plays every seat (default 0)")),
		mcp.WithString("opponent", mcp.Description("Policy for the other seats: greedy or random (default greedy)")),
	)
}

func takeActionTool() mcp.Tool {
	return mcp.NewTool("take_action",
		mcp.WithDescription("Submit one action. Give either the 0-based index from the actions list, or the action as text "+
			"such as 'take3 poke heal great', 'buy_market 1 2', 'buy_reserved <card id>' or 'end_turn'. "+
			"A turn is several actions: at most one primary action, at most one evolution, then end_turn."),
		mcp.WithString("action", mcp.Required(), mcp.Description("Action index or action text")),
	)
}

func legalActionsTool() mcp.Tool {
	return mcp.NewTool("legal_actions",
		mcp.WithDescription("List the legal actions for the seat to act. Read-only."),
	)
}

func observeTool() mcp.Tool {
	return mcp.NewTool("observe",
		mcp.WithDescription("Get the numeric observation for a seat: tokens, reward bonus, trophies, hand size, "+
			"encoded market and reserved cards. Read-only."),
		mcp.WithNumber("player", mcp.Required(), mcp.Description("0-based seat index")),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current game state, accumulated events, and legal actions without submitting anything. Read-only."),
	)
}

// --- Tool handlers ---

func (s *Session) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	players := request.GetInt("players", 2)
	seed := request.GetInt("seed", 1)
	if seed < 0 {
		return mcp.NewToolResultError("seed must be >= 0"), nil
	}

	resp, err := s.Start(ctx, StartOptions{
		Players:  players,
		Seed:     uint64(seed),
		Seat:     request.GetInt("seat", 0),
		Opponent: request.GetString("opponent", "greedy"),
	})
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (s *Session) handleTakeAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := request.GetString("action", "")
	if text == "" {
		// Numeric arguments arrive as numbers.
		if idx := request.GetInt("action", -1); idx >= 0 {
			text = strconv.Itoa(idx)
		}
	}
	if text == "" {
		return mcp.NewToolResultError("action is required"), nil
	}

	resp, err := s.Step(ctx, text)
	if err != nil {
		return mcp.NewToolResultErrorf("%v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (s *Session) handleLegalActions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	actions, err := s.LegalActions()
	if err != nil {
		return mcp.NewToolResultErrorf("%v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(actions)), nil
}

func (s *Session) handleObserve(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	obs, err := s.Observe(request.GetInt("player", -1))
	if err != nil {
		return mcp.NewToolResultErrorf("%v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(obs)), nil
}

func (s *Session) handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, err := s.Snapshot()
	if err != nil {
		return mcp.NewToolResultErrorf("%v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}
