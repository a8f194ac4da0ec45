package viz

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// CDNScript is the Cytoscape.js build loaded when not in offline mode.
const CDNScript = "https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"

// ErrNoLibrary is returned for offline pages generated without a Cytoscape.js source.
var ErrNoLibrary = errors.New("offline mode requires the Cytoscape.js source")

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Title   string // Page title
	Layout  string // "force", "circle", or "grid"
	Offline bool   // Whether to embed Cytoscape.js inline
	Library string // Cytoscape.js source, required when Offline
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{
		Title:   "Keyword Co-occurrence Network",
		Layout:  "force",
		Offline: false,
	}
}

// ValidLayouts lists the supported layout algorithm names.
var ValidLayouts = []string{"force", "circle", "grid"}

// GenerateHTML generates a self-contained HTML file for the graph visualization.
func GenerateHTML(graph *GraphData, opts HTMLOptions) (string, error) {
	if graph == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}

	// Validate layout option
	if err := validateLayout(opts.Layout); err != nil {
		return "", err
	}
	if opts.Offline && opts.Library == "" {
		return "", ErrNoLibrary
	}
	if opts.Title == "" {
		opts.Title = DefaultOptions().Title
	}

	if graph.IsEmpty() {
		return generateEmptyHTML(opts.Title)
	}

	graphJSON, err := graph.ToCytoscapeJSON()
	if err != nil {
		return "", err
	}

	data := templateData{
		Title:     opts.Title,
		ScriptTag: buildScriptTag(opts),
		GraphJSON: template.JS(graphJSON),
		Layout:    layoutToCytoscape(opts.Layout),
		MaxDegree: graph.MaxDegree(),
		MaxWeight: graph.MaxWeight(),
	}

	var buf bytes.Buffer
	if err := compiledTemplate.ExecuteTemplate(&buf, "viz", data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// validateLayout checks if the layout option is valid.
func validateLayout(layout string) error {
	switch layout {
	case "", "force", "circle", "grid":
		return nil
	default:
		return fmt.Errorf("invalid layout %q: must be force, circle, or grid", layout)
	}
}

// templateData holds data for the HTML template.
type templateData struct {
	Title     string
	ScriptTag template.HTML
	GraphJSON template.JS
	Layout    string
	MaxDegree int
	MaxWeight int
}

// layoutToCytoscape converts user-friendly layout names to Cytoscape.js layout algorithm names.
func layoutToCytoscape(layout string) string {
	switch layout {
	case "circle":
		return "circle"
	case "grid":
		return "grid"
	default:
		return "cose"
	}
}

// buildScriptTag returns either inline script or CDN reference.
func buildScriptTag(opts HTMLOptions) template.HTML {
	if opts.Offline {
		return template.HTML("<script>" + opts.Library + "</script>")
	}
	return template.HTML(`<script src="` + CDNScript + `"></script>`)
}

// generateEmptyHTML returns HTML for an empty graph state.
func generateEmptyHTML(title string) (string, error) {
	var buf bytes.Buffer
	if err := compiledTemplate.ExecuteTemplate(&buf, "empty", struct{ Title string }{title}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const htmlTemplate = `{{define "empty"}}<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}} - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
    .empty-state h2 {
      margin-bottom: 0.5em;
      color: #333;
    }
    .empty-state code {
      background: #e0e0e0;
      padding: 2px 6px;
      border-radius: 3px;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No co-occurring keywords</h2>
    <p>No record lists two or more distinct author keywords.</p>
    <p>Import an export with <code>bibstat import</code></p>
  </div>
</body>
</html>{{end}}<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  {{.ScriptTag}}
  <style>
    * {
      box-sizing: border-box;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      background: #f5f5f5;
    }
    #cy {
      width: 100%;
      height: 100vh;
      background: white;
    }
    #title {
      position: absolute;
      top: 10px;
      left: 16px;
      font-size: 16px;
      font-weight: bold;
      color: #333;
      z-index: 10;
    }
    /* Tooltip container */
    #tooltip {
      position: absolute;
      display: none;
      background: white;
      border: 1px solid #ccc;
      border-radius: 4px;
      padding: 8px 12px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.15);
      max-width: 300px;
      font-size: 13px;
      z-index: 1000;
      pointer-events: none;
    }
    #tooltip .label {
      font-weight: bold;
      margin-bottom: 4px;
    }
    #tooltip .detail {
      color: #555;
      margin: 2px 0;
    }
  </style>
</head>
<body>
  <div id="title">{{.Title}}</div>
  <div id="cy"></div>
  <div id="tooltip"></div>
  <script>
    (function() {
      const graphData = {{.GraphJSON}};
      const layout = {{.Layout}};
      const maxDegree = {{.MaxDegree}};
      const maxWeight = {{.MaxWeight}};

      // Initialize Cytoscape
      const cy = cytoscape({
        container: document.getElementById('cy'),
        elements: graphData,
        style: [
          // Keyword nodes sized by degree
          {
            selector: 'node',
            style: {
              'background-color': '#87CEEB',
              'label': 'data(label)',
              'color': '#333',
              'font-size': '10px',
              'text-valign': 'center',
              'width': 'mapData(degree, 0, ' + maxDegree + ', 20, 60)',
              'height': 'mapData(degree, 0, ' + maxDegree + ', 20, 60)'
            }
          },
          // Co-occurrence edges sized by weight
          {
            selector: 'edge',
            style: {
              'line-color': '#95A5A6',
              'curve-style': 'bezier',
              'opacity': 0.8,
              'width': 'mapData(weight, 1, ' + maxWeight + ', 1, 8)'
            }
          },
          // Highlighted state
          {
            selector: 'node.highlighted',
            style: {
              'border-width': 3,
              'border-color': '#ff6b6b'
            }
          },
          {
            selector: 'node.dimmed',
            style: {
              'opacity': 0.3
            }
          },
          {
            selector: 'edge.dimmed',
            style: {
              'opacity': 0.1
            }
          }
        ],
        layout: {
          name: layout,
          animate: false,
          // cose-specific options
          nodeRepulsion: 8000,
          idealEdgeLength: 100,
          edgeElasticity: 100
        }
      });

      // Tooltip handling
      const tooltip = document.getElementById('tooltip');

      function showTooltip(evt, content) {
        tooltip.innerHTML = content;
        tooltip.style.display = 'block';
        const pos = evt.renderedPosition || evt.position;
        tooltip.style.left = (pos.x + 15) + 'px';
        tooltip.style.top = (pos.y + 15) + 'px';
      }

      function hideTooltip() {
        tooltip.style.display = 'none';
      }

      function getNodeTooltip(node) {
        const data = node.data();
        let html = '<div class="label">' + escapeHtml(data.label) + '</div>';
        html += '<div class="detail">Co-occurring keywords: ' + data.degree + '</div>';
        html += '<div class="detail">Total co-occurrences: ' + data.weightedDegree + '</div>';
        return html;
      }

      function getEdgeTooltip(edge) {
        const data = edge.data();
        let html = '<div class="label">' + escapeHtml(data.source) + ' ↔ ' + escapeHtml(data.target) + '</div>';
        html += '<div class="detail">Records: ' + data.weight + '</div>';
        return html;
      }

      function escapeHtml(str) {
        if (!str) return '';
        return str.replace(/&/g, '&amp;')
                  .replace(/</g, '&lt;')
                  .replace(/>/g, '&gt;')
                  .replace(/"/g, '&quot;');
      }

      // Event handlers
      cy.on('mouseover', 'node', function(evt) {
        showTooltip(evt, getNodeTooltip(evt.target));
      });

      cy.on('mouseout', 'node', function() {
        hideTooltip();
      });

      cy.on('mouseover', 'edge', function(evt) {
        showTooltip(evt, getEdgeTooltip(evt.target));
      });

      cy.on('mouseout', 'edge', function() {
        hideTooltip();
      });

      // Click highlighting
      cy.on('tap', 'node', function(evt) {
        const node = evt.target;

        // Reset all
        cy.elements().removeClass('highlighted dimmed');

        // Get connected elements
        const neighborhood = node.neighborhood().add(node);

        // Highlight connected, dim others
        neighborhood.addClass('highlighted');
        cy.elements().not(neighborhood).addClass('dimmed');
      });

      // Click on empty space to reset
      cy.on('tap', function(evt) {
        if (evt.target === cy) {
          cy.elements().removeClass('highlighted dimmed');
        }
      });
    })();
  </script>
</body>
</html>`
