package engine

import "nc-news/internal/query"

var commentCount = &query.Aggregate{
	Table:      "comments",
	ForeignKey: "article_id",
	Counted:    "comment_id",
	Alias:      "comment_count",
}

// Listings exclude the article body; Detail selects it.
var articleList = query.ListSpec{
	Table:   "articles",
	Key:     "article_id",
	Columns: []string{"article_id", "title", "topic", "author", "created_at", "votes", "article_img_url"},
	Count:   commentCount,
}

var topicList = query.ListSpec{Table: "topics", Key: "slug"}

var userList = query.ListSpec{Table: "users", Key: "username"}

func articleComments(articleID int32) query.ListSpec {
	return query.ListSpec{
		Table:        "comments",
		Key:          "comment_id",
		Scope:        &query.Scope{Column: "article_id", Value: articleID},
		DefaultSort:  "created_at",
		DefaultOrder: query.Desc,
	}
}

var topicInsert = query.InsertSpec{
	Table: "topics",
	Fields: []query.BodyField{
		{Property: "slug", Column: "slug"},
		{Property: "description", Column: "description"},
	},
}

var articleInsert = query.InsertSpec{
	Table: "articles",
	Fields: []query.BodyField{
		{Property: "author", Column: "author"},
		{Property: "title", Column: "title"},
		{Property: "body", Column: "body"},
		{Property: "topic", Column: "topic"},
		{Property: "article_img_url", Column: "article_img_url"},
	},
}

var commentInsert = query.InsertSpec{
	Table: "comments",
	Fields: []query.BodyField{
		{Property: "username", Column: "author"},
		{Property: "body", Column: "body"},
	},
}
