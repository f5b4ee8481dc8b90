// Package transformation is a client for the hosted transformation agent,
// which fills or rewrites a property of every object in a collection from
// a natural language instruction.
//
//	agent := transformation.New(conn, "Article", []transformation.Step{
//		transformation.AppendProperty("summary", schema.DataTypeText,
//			[]string{"body"}, "Summarize the article in one sentence"),
//		transformation.UpdateProperty("title", []string{"title", "body"},
//			"Rewrite the title to be more descriptive"),
//	})
//	responses, err := agent.UpdateAll(ctx)
//
// Each response carries the id of the workflow the agent started.
package transformation
