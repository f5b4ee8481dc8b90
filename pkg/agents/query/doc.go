// Package query is a client for the hosted query agent, which answers
// natural language questions by searching and aggregating collections.
//
//	agent := query.New(conn, query.Collections("Article", "Author"))
//	resp, err := agent.Run(ctx, "Who wrote the most articles in 2023?", query.RunOptions{})
//	followUp, err := agent.Run(ctx, "And in 2024?", query.RunOptions{Context: resp})
package query
