package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"indexbench/pkg/btree"
)

const Prompt = "btree> "

var (
	levelColors = []*color.Color{
		color.New(color.FgCyan, color.Bold),
		color.New(color.FgGreen),
		color.New(color.FgYellow),
		color.New(color.FgMagenta),
		color.New(color.FgBlue),
	}
	errColor = color.New(color.FgRed)
	okColor  = color.New(color.FgGreen)
)

func main() {
	degree := flag.Int("degree", 2, "Minimum degree t of the tree")
	flag.Parse()

	tree, err := btree.New[float64, string](*degree)
	if err != nil {
		errColor.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("B-Tree CLI (degree %d). Type 'help' for commands.\n", *degree)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(Prompt)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])

		switch cmd {
		case "insert", "put", "set":
			handleInsert(tree, parts)
		case "search", "has":
			handleSearch(tree, parts)
		case "predict", "get":
			handlePredict(tree, parts)
		case "print", "levels":
			printLevels(tree)
		case "help":
			printHelp()
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Printf("Unknown command: '%s'. Type 'help'.\n", cmd)
		}
	}
}

func parseKey(s string) (float64, bool) {
	key, err := strconv.ParseFloat(s, 64)
	if err != nil {
		errColor.Println("Error: Key must be a number (e.g., 1001 or 2.5)")
		return 0, false
	}
	return key, true
}

func handleInsert(tree *btree.Tree[float64, string], parts []string) {
	if len(parts) < 2 {
		fmt.Println("Usage: insert <key> [value]")
		return
	}
	key, ok := parseKey(parts[1])
	if !ok {
		return
	}
	value := strings.Join(parts[2:], " ")

	start := time.Now()
	tree.Insert(key, value)
	okColor.Printf("OK (%v, height %d, %d items)\n", time.Since(start), tree.Height(), tree.Len())
}

func handleSearch(tree *btree.Tree[float64, string], parts []string) {
	if len(parts) < 2 {
		fmt.Println("Usage: search <key>")
		return
	}
	key, ok := parseKey(parts[1])
	if !ok {
		return
	}

	start := time.Now()
	found := tree.Search(key)
	fmt.Printf("%v (%v)\n", found, time.Since(start))
}

func handlePredict(tree *btree.Tree[float64, string], parts []string) {
	if len(parts) < 2 {
		fmt.Println("Usage: predict <key>")
		return
	}
	key, ok := parseKey(parts[1])
	if !ok {
		return
	}

	start := time.Now()
	val, found := tree.Predict(key)
	duration := time.Since(start)
	if !found {
		errColor.Printf("Key not found. (%v)\n", duration)
		return
	}
	fmt.Printf("\"%s\" (%v)\n", val, duration)
}

func printLevels(tree *btree.Tree[float64, string]) {
	for depth, level := range tree.LevelOrder() {
		c := levelColors[depth%len(levelColors)]
		nodes := make([]string, len(level))
		for i, items := range level {
			keys := make([]string, len(items))
			for j, it := range items {
				keys[j] = strconv.FormatFloat(it.Key, 'g', -1, 64)
			}
			nodes[i] = "[" + strings.Join(keys, " ") + "]"
		}
		fmt.Printf("L%d ", depth)
		c.Println(strings.Join(nodes, " "))
	}
}

func printHelp() {
	fmt.Println(`
Commands:
  insert <key> [value]   Insert a record (duplicates allowed)
  search <key>           Report whether key exists
  predict <key>          Retrieve the value stored under key
  print                  Show the tree level by level
  exit                   Exit CLI
	`)
}
