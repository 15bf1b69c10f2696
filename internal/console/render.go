package console

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/client"
	"github.com/ovaphlow/pitchfork/service-subscriber-go/internal/subscriber/entity"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{FormatText, FormatJSON}

func renderList(w io.Writer, st client.State, format string) error {
	if format == FormatJSON {
		return writeJSON(w, st.Subscribers)
	}

	fmt.Fprintln(w, "All Subscribers")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEmail\tFirst name\tLast name\tAddress\tCity\tPostal\tPhone")
	for _, s := range st.Subscribers {
		id := ""
		if s.ID != nil {
			id = strconv.FormatInt(*s.ID, 10)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", id,
			entity.Value(s.Email), entity.Value(s.Surname), entity.Value(s.Lastname),
			entity.Value(s.Address), entity.Value(s.City), entity.Value(s.PostalCode), entity.Value(s.PhoneNumber))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if st.Err != "" {
		fmt.Fprintf(w, "warning: %s\n", st.Err)
	}
	return nil
}

func renderForm(w io.Writer, title string, f client.Form, format string) error {
	if format == FormatJSON {
		return writeJSON(w, f)
	}
	fmt.Fprintln(w, title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, fld := range formFields(&f) {
		fmt.Fprintf(tw, "%s:\t%s\n", fld.label, *fld.value)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type formField struct {
	name  string
	label string
	value *string
}

// formFields lists the editable fields of f in display order.
func formFields(f *client.Form) []formField {
	return []formField{
		{"email", "Email", &f.Email},
		{"surname", "First name", &f.Surname},
		{"lastname", "Last name", &f.Lastname},
		{"address", "Address", &f.Address},
		{"city", "City", &f.City},
		{"postal-code", "Postal code", &f.PostalCode},
		{"phone-number", "Phone number", &f.PhoneNumber},
	}
}
