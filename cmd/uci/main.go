// Command uci runs the engine as a UCI (Universal Chess Interface) process:
// a line-oriented loop over stdin/stdout that wires the search pool to the
// commands a GUI sends (uci, isready, position, go, stop, setoption, quit).
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"chessengine/eval"
	"chessengine/position"
	"chessengine/search"
	"chessengine/tt"
)

const (
	engineName   = "GooseEngine"
	engineAuthor = "Goose"

	defaultHashMB   = 64
	defaultThreads  = 1
	defaultOverhead = 10
	defaultMultiPV  = 1
)

type engineState struct {
	pool     *search.Pool
	threads  int
	hashMB   int
	overhead int64
	multiPV  int
	pos      *position.Position

	// searchWG is non-nil while a go command's search goroutine is in
	// flight, letting ucinewgame/quit wait for it to settle before
	// touching pool or pos out from under it.
	searchWG *sync.WaitGroup
}

func (e *engineState) awaitSearch() {
	if e.searchWG != nil {
		e.searchWG.Wait()
		e.searchWG = nil
	}
}

func newEngineState() *engineState {
	e := &engineState{threads: defaultThreads, hashMB: defaultHashMB, overhead: defaultOverhead, multiPV: defaultMultiPV}
	e.pool = search.New(e.threads, e.hashMB, eval.New())
	e.pos, _ = position.NewPositionFromFEN(position.StartFEN)
	return e
}

func main() {
	e := newEngineState()
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "uci":
			handleUCI()
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			e.pool.Stop()
			e.awaitSearch()
			e.pos, _ = position.NewPositionFromFEN(position.StartFEN)
			e.pool.Clear()
		case "setoption":
			e.pool.Stop()
			e.awaitSearch()
			e.handleSetOption(fields[1:])
		case "position":
			e.pool.Stop()
			e.awaitSearch()
			e.handlePosition(fields[1:])
		case "go":
			e.awaitSearch()
			e.handleGo(fields[1:])
		case "stop":
			e.pool.Stop()
		case "quit":
			e.pool.Stop()
			e.awaitSearch()
			return
		default:
			fmt.Println("info string unknown command:", fields[0])
		}
	}
}

func handleUCI() {
	fmt.Println("id name", engineName)
	fmt.Println("id author", engineAuthor)
	fmt.Printf("option name Hash type spin default %d min 1 max 65536\n", defaultHashMB)
	fmt.Printf("option name Threads type spin default %d min 1 max 256\n", defaultThreads)
	fmt.Printf("option name Move Overhead type spin default %d min 0 max 5000\n", defaultOverhead)
	fmt.Printf("option name MultiPV type spin default %d min 1 max 500\n", defaultMultiPV)
	fmt.Println("option name Clear Hash type button")
	fmt.Println("uciok")
}

func (e *engineState) handleSetOption(fields []string) {
	// setoption name <NAME...> value <VALUE>
	name, value := parseSetOption(fields)
	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil || mb < 1 {
			fmt.Println("info string malformed Hash value", value)
			return
		}
		e.hashMB = mb
		e.pool.Resize(mb)
	case "threads":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			fmt.Println("info string malformed Threads value", value)
			return
		}
		e.threads = n
		e.pool = search.New(n, e.hashMB, eval.New())
	case "multipv":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			fmt.Println("info string malformed MultiPV value", value)
			return
		}
		e.multiPV = n
	case "clear hash":
		e.pool.Clear()
	case "move overhead":
		ms, err := strconv.ParseInt(value, 10, 64)
		if err != nil || ms < 0 {
			fmt.Println("info string malformed Move Overhead value", value)
			return
		}
		e.overhead = ms
	default:
		fmt.Println("info string unknown option", name)
	}
}

func parseSetOption(fields []string) (name, value string) {
	i := 0
	if i < len(fields) && strings.ToLower(fields[i]) == "name" {
		i++
	}
	var nameParts []string
	for i < len(fields) && strings.ToLower(fields[i]) != "value" {
		nameParts = append(nameParts, fields[i])
		i++
	}
	name = strings.Join(nameParts, " ")
	if i < len(fields) && strings.ToLower(fields[i]) == "value" {
		i++
	}
	value = strings.Join(fields[i:], " ")
	return name, value
}

func (e *engineState) handlePosition(fields []string) {
	if len(fields) == 0 {
		fmt.Println("info string malformed position command")
		return
	}
	i := 0
	var pos *position.Position
	var err error
	switch fields[0] {
	case "startpos":
		pos, err = position.NewPositionFromFEN(position.StartFEN)
		i = 1
	case "fen":
		var fenParts []string
		i = 1
		for i < len(fields) && fields[i] != "moves" {
			fenParts = append(fenParts, fields[i])
			i++
		}
		pos, err = position.NewPositionFromFEN(strings.Join(fenParts, " "))
	default:
		fmt.Println("info string invalid position subcommand")
		return
	}
	if err != nil {
		fmt.Println("info string", err)
		return
	}
	if i < len(fields) && fields[i] == "moves" {
		i++
		for ; i < len(fields); i++ {
			mv, ok := findMove(pos, fields[i])
			if !ok {
				fmt.Println("info string move not found:", fields[i])
				break
			}
			pos.DoMove(mv)
		}
	}
	e.pos = pos
}

// findMove resolves a UCI long-algebraic move (e.g. "e2e4", "e7e8q") against
// the position's legal moves, since the 16-bit Move encoding plus the
// position's own castling/en-passant rules determine the exact kind bits a
// bare from/to string can't carry on its own.
func findMove(pos *position.Position, s string) (position.Move, bool) {
	if len(s) < 4 {
		return position.MoveNone, false
	}
	from, err1 := parseSquare(s[0:2])
	to, err2 := parseSquare(s[2:4])
	if err1 != nil || err2 != nil {
		return position.MoveNone, false
	}
	var promo byte
	if len(s) >= 5 {
		promo = s[4]
	}

	var buf [256]position.Move
	for _, mv := range pos.Generate(position.GenLegal, buf[:0]) {
		if mv.From() != from || mv.To() != to {
			continue
		}
		if promo == 0 {
			if mv.Kind() != position.Promotion {
				return mv, true
			}
			continue
		}
		if mv.Kind() == position.Promotion && promoLetter(mv.PromotionType()) == promo {
			return mv, true
		}
	}
	return position.MoveNone, false
}

func promoLetter(pt position.PieceType) byte {
	switch pt {
	case position.Knight:
		return 'n'
	case position.Bishop:
		return 'b'
	case position.Rook:
		return 'r'
	case position.Queen:
		return 'q'
	}
	return 0
}

func parseSquare(s string) (position.Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return position.NoSquare, fmt.Errorf("bad square %q", s)
	}
	return position.MakeSquare(position.File(s[0]-'a'), position.Rank(s[1]-'1')), nil
}

func (e *engineState) handleGo(fields []string) {
	limits := search.Limits{MoveOverheadMs: e.overhead, MultiPV: e.multiPV}
	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "infinite":
			limits.Infinite = true
		case "ponder":
			limits.Ponder = true
		case "wtime":
			i++
			limits.WTimeMs = atoi64(fields, i)
		case "btime":
			i++
			limits.BTimeMs = atoi64(fields, i)
		case "winc":
			i++
			limits.WIncMs = atoi64(fields, i)
		case "binc":
			i++
			limits.BIncMs = atoi64(fields, i)
		case "movestogo":
			i++
			limits.MovesToGo = int(atoi64(fields, i))
		case "depth":
			i++
			limits.Depth = int(atoi64(fields, i))
		case "nodes":
			i++
			limits.Nodes = uint64(atoi64(fields, i))
		case "movetime":
			i++
			limits.MoveTimeMs = atoi64(fields, i)
			limits.Depth = 0
		default:
			fmt.Println("info string unknown go subcommand", fields[i])
		}
	}
	if limits.MoveTimeMs > 0 {
		limits.WTimeMs, limits.BTimeMs = limits.MoveTimeMs, limits.MoveTimeMs
		limits.WIncMs, limits.BIncMs = 0, 0
	}

	chess960 := e.pos.IsChess960()
	e.pool.Info = func(info search.Info) { reportInfo(info, chess960) }

	var wg sync.WaitGroup
	wg.Add(1)
	e.searchWG = &wg
	pos, pool := e.pos, e.pool
	go func() {
		defer wg.Done()
		best, _ := pool.StartSearching(pos, nil, limits)
		if best.IsNone() {
			fmt.Println("bestmove 0000")
			return
		}
		fmt.Println("bestmove", best.UCI(chess960))
	}()
}

func atoi64(fields []string, i int) int64 {
	if i >= len(fields) {
		return 0
	}
	n, _ := strconv.ParseInt(fields[i], 10, 64)
	return n
}

func reportInfo(info search.Info, chess960 bool) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "info depth %d seldepth %d multipv %d", info.Depth, info.SelDepth, info.MultiPVIdx)
	if info.Mate {
		mate := mateDistance(info.Score)
		fmt.Fprintf(&sb, " score mate %d", mate)
	} else {
		fmt.Fprintf(&sb, " score cp %d", info.Score)
	}
	switch info.Bound {
	case tt.BoundUpper:
		sb.WriteString(" upperbound")
	case tt.BoundLower:
		sb.WriteString(" lowerbound")
	}
	fmt.Fprintf(&sb, " nodes %d hashfull %d time %d", info.Nodes, info.HashFull, info.Time.Milliseconds())
	if len(info.PV) > 0 {
		sb.WriteString(" pv")
		for _, mv := range info.PV {
			sb.WriteByte(' ')
			sb.WriteString(mv.UCI(chess960))
		}
	}
	fmt.Println(sb.String())
}

// mateDistance converts an internal mate score into the "moves to mate"
// count UCI's score mate wants, signed for who delivers it.
func mateDistance(score int32) int {
	if score > 0 {
		return int((tt.MaxScore - score + 1) / 2)
	}
	return -int((tt.MaxScore + score + 1) / 2)
}
