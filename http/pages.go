package http

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
)

const pageStyle = `
    body { font-family: system-ui, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; }
    input { width: 100%; padding: 8px; margin: 10px 0; box-sizing: border-box; }
    button, .button { display: inline-block; padding: 10px 20px; background: #0066ff; color: #fff;
      border: none; border-radius: 4px; text-decoration: none; cursor: pointer; margin: 5px 0; }
    .panel { background: #f5f5f5; padding: 20px; border-radius: 8px; }
    .code { background: #fff; padding: 10px; border-radius: 4px; font-family: monospace; white-space: pre; }
    .upload { margin: 20px 0; padding: 20px; border: 2px dashed #0066ff; border-radius: 8px; }
    .error { color: #c00; margin-bottom: 10px; }
    .login { max-width: 400px; margin: 50px auto; }`

var loginPage = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>kvdrop: login</title>
  <style>{{.Style}}</style>
</head>
<body>
  <form class="login" method="POST" action="/">
    <h2>Login</h2>
    {{- if .Error}}
    <div class="error">{{.Error}}</div>
    {{- end}}
    <input type="password" name="token" placeholder="Enter token" autocomplete="current-password" required>
    <button type="submit">Submit</button>
  </form>
</body>
</html>
`))

var configPage = template.Must(template.New("config").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>kvdrop: {{.Host}}</title>
  <style>{{.Style}}</style>
</head>
<body>
  <div class="panel">
    <h2>kvdrop on {{.Host}}</h2>

    <h3>Upload a file</h3>
    <form class="upload" method="POST" action="/" enctype="multipart/form-data">
      <input type="file" name="file" required>
      <button type="submit">Upload</button>
    </form>

    <h3>Windows script</h3>
    <a href="/config/update.bat" class="button">Download update.bat</a>
    <div class="code">update.bat yourfile.txt</div>

    <h3>Linux / macOS script</h3>
    <a href="/config/update.sh" class="button">Download update.sh</a>
    <div class="code">chmod +x update.sh
./update.sh yourfile.txt</div>

    <h3>View a file</h3>
    <input type="text" id="filename" placeholder="Enter filename">
    <button type="button" onclick="viewFile()">View</button>
  </div>

  <script>
    function viewFile() {
      var name = document.getElementById('filename').value.trim();
      if (!name) {
        alert('Please enter a filename');
        return;
      }
      window.open('/' + encodeURI(name));
    }
  </script>
</body>
</html>
`))

type pageData struct {
	Style template.CSS
	Error string
	Host  string
}

func renderPage(w http.ResponseWriter, code int, tmpl *template.Template, data pageData) {
	data.Style = template.CSS(pageStyle) //nolint:gosec // constant stylesheet

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("failed to write page", "error", err)
	}
}

// renderLogin writes the login form, annotated with errMsg when non-empty.
func renderLogin(w http.ResponseWriter, code int, errMsg string) {
	renderPage(w, code, loginPage, pageData{Error: errMsg})
}

// renderConfig writes the page shown after a successful login.
func renderConfig(w http.ResponseWriter, host string) {
	renderPage(w, http.StatusOK, configPage, pageData{Host: host})
}
