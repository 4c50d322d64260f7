package nook

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// syncRequest is a full-sync anchor request against the digital locker store.
const syncRequest = `<?xml version="1.0" encoding="utf-8"?>
<SyncML>
  <SyncHdr>
    <VerDTD>1.1</VerDTD>
    <VerProto>SyncML/1.1</VerProto>
    <SessionID>1</SessionID>
    <Source>
      <LocURI>0</LocURI>
    </Source>
    <Target>
      <LocURI>http://sync.barnesandnoble.com/sync/001/Default.aspx</LocURI>
    </Target>
  </SyncHdr>
  <SyncBody>
    <Alert>
      <Data>201</Data>
      <Item>
        <Target>
          <LocURI>uri://com.bn.sync/store/digital_locker</LocURI>
        </Target>
        <Source>
          <LocURI>0/products</LocURI>
        </Source>
        <Meta>
          <Anchor>
            <Last/>
          </Anchor>
        </Meta>
      </Item>
    </Alert>
    <Final/>
  </SyncBody>
</SyncML>
`

// Book is one purchased title.
type Book struct {
	DeliveryID int64
	Title      string
}

// Library maps delivery IDs to titles. It is a snapshot built fresh by every
// Client.Library call.
type Library map[int64]string

// Sorted returns the books ordered by case-folded title, then delivery ID.
func (l Library) Sorted() []Book {
	books := make([]Book, 0, len(l))
	for id, title := range l {
		books = append(books, Book{DeliveryID: id, Title: title})
	}

	fold := cases.Fold()
	keys := make(map[int64]string, len(books))

	for _, b := range books {
		keys[b.DeliveryID] = fold.String(b.Title)
	}

	sort.Slice(books, func(i, j int) bool {
		ki, kj := keys[books[i].DeliveryID], keys[books[j].DeliveryID]
		if ki != kj {
			return ki < kj
		}

		return books[i].DeliveryID < books[j].DeliveryID
	})

	return books
}

type syncResponse struct {
	Body *struct {
		Items []lockerItem `xml:"Sync>Add>Item>Data>LockerItem"`
	} `xml:"SyncBody"`
}

type lockerItem struct {
	DeliveryID *string   `xml:"DeliveryId,attr"`
	Title      *textNode `xml:"ProductData>product>titles>title"`
}

// Library fetches every purchased title with a single sync request. A
// delivery ID repeated by the server keeps the last title seen.
func (c *Client) Library(ctx context.Context, s *Session) (Library, error) {
	const op = "library sync"

	if err := requireAuth(s); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.endpoints.Sync, strings.NewReader(syncRequest), s)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", contentTypeSyncML)

	var body syncResponse
	if _, err := c.doXML(op, req, &body); err != nil {
		return nil, err
	}

	if body.Body == nil {
		return nil, &ProtocolError{Op: op, Field: "SyncBody"}
	}

	lib := make(Library, len(body.Body.Items))

	for _, item := range body.Body.Items {
		if item.DeliveryID == nil {
			return nil, &ProtocolError{Op: op, Field: "LockerItem/@DeliveryId"}
		}

		id, err := strconv.ParseInt(strings.TrimSpace(*item.DeliveryID), 10, 64)
		if err != nil {
			return nil, &ProtocolError{Op: op, Field: "LockerItem/@DeliveryId", Err: err}
		}

		if item.Title == nil {
			return nil, &ProtocolError{Op: op, Field: "LockerItem/ProductData/product/titles/title"}
		}

		lib[id] = item.Title.Text
	}

	c.logger.Debug("library synced", slog.Int("books", len(lib)))

	return lib, nil
}
