package views

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/EO-DataHub/eodhp-group-services/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

type renderedRow struct {
	cells     []string
	idStudent string
	idGroup   string
	action    string
	method    string
	editHref  string
}

type renderedTable struct {
	header []string
	rows   []renderedRow
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func parseTable(t *testing.T, markup string) renderedTable {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(markup))
	require.NoError(t, err)

	tables := findAll(doc, "table")
	require.Len(t, tables, 1)

	var table renderedTable
	theads := findAll(tables[0], "thead")
	require.Len(t, theads, 1)
	headerRows := findAll(theads[0], "tr")
	require.Len(t, headerRows, 1)
	for _, th := range findAll(headerRows[0], "th") {
		table.header = append(table.header, text(th))
	}

	tbodies := findAll(tables[0], "tbody")
	require.Len(t, tbodies, 1)
	for _, tr := range findAll(tbodies[0], "tr") {
		var row renderedRow
		tds := findAll(tr, "td")
		require.Len(t, tds, 5)
		for _, td := range tds[:3] {
			row.cells = append(row.cells, text(td))
		}

		forms := findAll(tds[3], "form")
		require.Len(t, forms, 1)
		row.action = attr(forms[0], "action")
		row.method = attr(forms[0], "method")
		for _, input := range findAll(forms[0], "input") {
			assert.Equal(t, "hidden", attr(input, "type"))
			switch attr(input, "name") {
			case "id_student":
				row.idStudent = attr(input, "value")
			case "id_group":
				row.idGroup = attr(input, "value")
			}
		}
		require.Len(t, findAll(forms[0], "button"), 1)

		links := findAll(tds[4], "a")
		require.Len(t, links, 1)
		row.editHref = attr(links[0], "href")

		table.rows = append(table.rows, row)
	}
	return table
}

func render(t *testing.T, users []models.User, groupID string) renderedTable {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RenderMemberTable(&buf, users, groupID))
	return parseTable(t, buf.String())
}

func TestRenderMemberTable_SingleMember(t *testing.T) {
	table := render(t, []models.User{
		{ID: "u1", Firstname: "Ann", Surname: "Lee", Email: "a@x.com"},
	}, "g1")

	assert.Equal(t, []string{"Имя", "Фамилия", "Почта", "", ""}, table.header)
	require.Len(t, table.rows, 1)

	row := table.rows[0]
	assert.Equal(t, []string{"Ann", "Lee", "a@x.com"}, row.cells)
	assert.Equal(t, "u1", row.idStudent)
	assert.Equal(t, "g1", row.idGroup)
	assert.Equal(t, RemoveMemberPath, row.action)
	assert.Equal(t, "post", row.method)
	assert.Equal(t, "/user/u1", row.editHref)
}

func TestRenderMemberTable_EmptyGroup(t *testing.T) {
	table := render(t, []models.User{}, "g2")

	assert.Len(t, table.header, 5)
	assert.Empty(t, table.rows)
}

func TestRenderMemberTable_NilUsers(t *testing.T) {
	table := render(t, nil, "g2")
	assert.Empty(t, table.rows)
}

func TestRenderMemberTable_RowPerUserInOrder(t *testing.T) {
	var users []models.User
	for i := 0; i < 7; i++ {
		users = append(users, models.User{
			ID:        fmt.Sprintf("u%d", i),
			Firstname: fmt.Sprintf("First%d", i),
			Surname:   fmt.Sprintf("Last%d", i),
			Email:     fmt.Sprintf("u%d@x.com", i),
		})
	}
	// Unsorted input must keep its order.
	users[0], users[5] = users[5], users[0]

	table := render(t, users, "g-7")
	require.Len(t, table.rows, len(users))

	for i, row := range table.rows {
		assert.Equal(t, users[i].ID, row.idStudent)
		assert.Equal(t, "g-7", row.idGroup)
		assert.Equal(t, "/user/"+users[i].ID, row.editHref)
		assert.Equal(t, []string{users[i].Firstname, users[i].Surname, users[i].Email}, row.cells)
	}
}

func TestRenderMemberTable_EscapesContent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderMemberTable(&buf, []models.User{
		{ID: "u1", Firstname: "<script>alert(1)</script>", Surname: "O'Neil", Email: "a@x.com"},
	}, `g"1`))

	assert.NotContains(t, buf.String(), "<script>")

	table := parseTable(t, buf.String())
	require.Len(t, table.rows, 1)
	assert.Equal(t, "<script>alert(1)</script>", table.rows[0].cells[0])
	assert.Equal(t, "O'Neil", table.rows[0].cells[1])
	assert.Equal(t, `g"1`, table.rows[0].idGroup)
}

func TestRenderGroupPage(t *testing.T) {
	var buf bytes.Buffer
	err := RenderGroupPage(&buf, models.Group{ID: "g1", Name: "10А"}, []models.User{
		{ID: "u1", Firstname: "Ann", Surname: "Lee", Email: "a@x.com"},
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "<h1>10А</h1>")
	table := parseTable(t, buf.String())
	require.Len(t, table.rows, 1)
	assert.Equal(t, "g1", table.rows[0].idGroup)
}

func TestRenderErrorPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderErrorPage(&buf, http.StatusInternalServerError))
	assert.Contains(t, buf.String(), "Internal Server Error")
}
