package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/peterh/liner"
	"go.mongodb.org/mongo-driver/bson"

	"monquery/client"
	"monquery/query"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	var coll *client.Collection
	if cfg.MongoURI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		c, err := client.Connect(ctx, cfg.MongoURI)
		cancel()
		if err != nil {
			log.Fatalf("Error connecting to %s: %v", cfg.MongoURI, err)
		}
		defer c.Disconnect(context.Background())
		coll = c.Database(cfg.Database).Collection(cfg.Collection)
		fmt.Printf("Connected to %s (%s.%s)\n", cfg.MongoURI, cfg.Database, cfg.Collection)
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		expr, err := line.Prompt("Enter query: ")
		if err != nil {
			// Ctrl-C or EOF; either way we are done
			fmt.Println()
			break
		}
		expr = strings.TrimSpace(expr)
		if expr == "" {
			break
		}
		line.AppendHistory(expr)

		q, err := query.ToMongo(expr)
		if err != nil {
			var bad *query.BadExpression
			if errors.As(err, &bad) {
				fmt.Printf("Error! Cannot parse %q: %s\n", bad.Expr, bad.Details)
			} else {
				fmt.Printf("Error! %v\n", err)
			}
			continue
		}

		printQuery(q, cfg.Compact)
		if coll != nil {
			runQuery(coll, q)
		}
	}
	fmt.Println("Bye!")
}

func printQuery(q map[string]interface{}, compact bool) {
	var out []byte
	var err error
	if compact {
		out, err = json.Marshal(q)
	} else {
		out, err = json.MarshalIndent(q, "", "  ")
	}
	if err != nil {
		fmt.Printf("Error! %v\n", err)
		return
	}
	fmt.Printf("Result: %s\n", out)
}

func runQuery(coll *client.Collection, q map[string]interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cur, err := coll.Find(ctx, bson.M(q))
	if err != nil {
		fmt.Printf("Query failed: %v\n", err)
		return
	}
	defer cur.Close(ctx)

	count := 0
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			fmt.Printf("Decode failed: %v\n", err)
			return
		}
		out, _ := json.Marshal(doc)
		fmt.Println(string(out))
		count++
	}
	if err := cur.Err(); err != nil {
		fmt.Printf("Cursor error: %v\n", err)
		return
	}
	fmt.Printf("%d matching document(s)\n", count)
}
