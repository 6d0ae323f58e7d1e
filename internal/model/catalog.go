package model

// Category is a waste sorting category and the points a correct drop earns.
type Category struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Icon   string `json:"icon" yaml:"icon"`
	Points int    `json:"points" yaml:"points"`
}

func (c Category) RecordID() string { return c.ID }

func (c Category) WithRecordID(id string) Category {
	c.ID = id
	return c
}

// Reward is an item users can redeem points for.
type Reward struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Points int    `json:"points" yaml:"points"`
	Stock  int    `json:"stock" yaml:"stock"`
}

func (r Reward) RecordID() string { return r.ID }

func (r Reward) WithRecordID(id string) Reward {
	r.ID = id
	return r
}

// Activity is a promotional event with a date range.
type Activity struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Start  string `json:"start" yaml:"start"`
	End    string `json:"end" yaml:"end"`
	Status string `json:"status" yaml:"status"`
}

func (a Activity) RecordID() string { return a.ID }

func (a Activity) WithRecordID(id string) Activity {
	a.ID = id
	return a
}

// News is a published article.
type News struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Date    string `json:"date" yaml:"date"`
	Content string `json:"content" yaml:"content"`
}

func (n News) RecordID() string { return n.ID }

func (n News) WithRecordID(id string) News {
	n.ID = id
	return n
}

// User is a registered resident account.
type User struct {
	ID         string `json:"id" yaml:"id"`
	Username   string `json:"username" yaml:"username"`
	Email      string `json:"email" yaml:"email"`
	Registered string `json:"registered" yaml:"registered"`
	Status     string `json:"status" yaml:"status"`
}

func (u User) RecordID() string { return u.ID }

func (u User) WithRecordID(id string) User {
	u.ID = id
	return u
}
