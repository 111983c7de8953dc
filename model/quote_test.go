package model

import "testing"

func TestQuoteCreate(t *testing.T) {
	q, err := broker.CreateQuote("alice", "first!")
	if err != nil {
		t.Fatal(err)
	}
	if q.IsApproved() {
		t.Error("new quote must not be approved")
	}
	if q.GetAuthor() != "alice" || q.GetBody() != "first!" {
		t.Errorf("quote = %q by %q", q.GetBody(), q.GetAuthor())
	}
}

func TestQuoteApprove(t *testing.T) {
	q, err := broker.CreateQuote("alice", "approve me")
	if err != nil {
		t.Fatal(err)
	}
	if err := q.Approve(); err != nil {
		t.Fatal(err)
	}

	q, err = broker.GetQuote(q.GetID())
	if err != nil {
		t.Fatal(err)
	}
	if !q.IsApproved() {
		t.Error("approval didn't persist")
	}
}

func TestQuoteUpdate(t *testing.T) {
	q, err := broker.CreateQuote("alice", "tpyo")
	if err != nil {
		t.Fatal(err)
	}
	if err := q.Update("bob", "typo"); err != nil {
		t.Fatal(err)
	}

	q, err = broker.GetQuote(q.GetID())
	if err != nil {
		t.Fatal(err)
	}
	if q.GetAuthor() != "bob" || q.GetBody() != "typo" {
		t.Errorf("quote = %q by %q after update", q.GetBody(), q.GetAuthor())
	}
}

func TestQuoteListsSplitOnApproval(t *testing.T) {
	approved, err := broker.ApprovedQuotes(1, 100)
	if err != nil {
		t.Fatal(err)
	}
	for _, q := range approved {
		if !q.IsApproved() {
			t.Errorf("unapproved quote %d in approved list", q.GetID())
		}
	}

	pending, err := broker.UnapprovedQuotes()
	if err != nil {
		t.Fatal(err)
	}
	for _, q := range pending {
		if q.IsApproved() {
			t.Errorf("approved quote %d in moderation queue", q.GetID())
		}
	}

	if len(pending) == 0 {
		t.Error("expected pending quotes from earlier tests")
	}
}

func TestQuotePagination(t *testing.T) {
	for i := 0; i < 12; i++ {
		q, err := broker.CreateQuote("paged", "body")
		if err != nil {
			t.Fatal(err)
		}
		if err := q.Approve(); err != nil {
			t.Fatal(err)
		}
	}

	one, err := broker.ApprovedQuotes(1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(one) != 10 {
		t.Errorf("page 1 has %d quotes, want 10", len(one))
	}

	two, err := broker.ApprovedQuotes(2, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(two) == 0 {
		t.Error("page 2 empty")
	}
	if one[len(one)-1].GetID() >= two[0].GetID() {
		t.Error("pages out of order")
	}

	// page 0 is treated as page 1
	zero, err := broker.ApprovedQuotes(0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(zero) != len(one) || zero[0].GetID() != one[0].GetID() {
		t.Error("page 0 should alias page 1")
	}
}

func TestQuoteErase(t *testing.T) {
	q, err := broker.CreateQuote("alice", "going away")
	if err != nil {
		t.Fatal(err)
	}
	id := q.GetID()
	if err := q.Erase(); err != nil {
		t.Fatal(err)
	}
	if _, err := broker.GetQuote(id); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound after erase", err)
	}
}
