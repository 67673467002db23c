package pptx

import "strings"

// ExtractNotes returns the speaker-notes text of a notes-slide part: the
// paragraphs of its body placeholder joined with newlines. Any failure,
// including a malformed part, yields "".
func ExtractNotes(data []byte) (notes string) {
	defer func() {
		if recover() != nil {
			notes = ""
		}
	}()

	var doc partXML
	if err := decodeXML(data, &doc); err != nil {
		return ""
	}
	sp := findBodyPlaceholder(&doc.CSld.SpTree)
	if sp == nil || sp.TxBody == nil {
		return ""
	}

	lines := make([]string, 0, len(sp.TxBody.P))
	for i := range sp.TxBody.P {
		lines = append(lines, notesParagraphText(&sp.TxBody.P[i]))
	}
	return strings.Join(lines, "\n")
}

func findBodyPlaceholder(tree *shapeTreeXML) *spXML {
	for _, node := range tree.Nodes {
		switch {
		case node.Sp != nil:
			if ph := node.Sp.NvSpPr.NvPr.Ph; ph != nil && ph.Type == "body" {
				return node.Sp
			}
		case node.Group != nil:
			if sp := findBodyPlaceholder(node.Group); sp != nil {
				return sp
			}
		}
	}
	return nil
}

func notesParagraphText(p *pXML) string {
	var sb strings.Builder
	for _, item := range p.Items {
		switch {
		case item.R != nil:
			sb.WriteString(item.R.text())
		case item.Fld != nil:
			sb.WriteString(item.Fld.T)
		case item.Br != nil:
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
