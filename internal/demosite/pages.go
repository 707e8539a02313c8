package demosite

// Pages served by the demo site. The challenge interstitial mimics the
// common bot-blocking pattern: a plain client only ever sees the
// interstitial, while a real browser runs the inline script, picks up the
// clearance cookie and lands on the article after the reload.

const challengePage = `<!DOCTYPE html>
<html>
<head>
    <title>Just a moment...</title>
    <link rel="icon" href="/favicon.ico">
    <style>
        body { font-family: system-ui, sans-serif; display: flex; justify-content: center; margin-top: 15vh; }
        .challenge-box { text-align: center; max-width: 420px; }
        .spinner { font-size: 2em; }
    </style>
</head>
<body>
    <div id="challenge" class="challenge-box">
        <div class="spinner">&#8987;</div>
        <h1>Checking your browser</h1>
        <p>This process is automatic. You will be redirected shortly.</p>
        <noscript><p>Please enable JavaScript to continue.</p></noscript>
    </div>
    <script>
        document.cookie = "` + clearanceCookie + `=1; path=/";
        setTimeout(function () { location.reload(); }, 100);
    </script>
</body>
</html>`

const articlePage = `<!DOCTYPE html>
<html>
<head>
    <title>Demo Article</title>
    <link rel="stylesheet" href="/static/style.css">
    <link rel="icon" href="/favicon.ico">
</head>
<body>
    <main id="main-content">
        <img src="/static/logo.svg" alt="logo" width="32" height="32">
        <h1>The Demo Article</h1>
        <p>If you can read this, the fetch went through.</p>
        <p>Plain HTTP clients get the challenge interstitial instead of this
        page; browsers clear the challenge and land here.</p>
    </main>
</body>
</html>`

const indexPage = `<!DOCTYPE html>
<html>
<head><title>Demo Site</title></head>
<body>
    <h1>Demo Site</h1>
    <p>A tiny site that simulates simple bot blocking.</p>
    <ul>
        <li><a href="/article">/article</a> - the protected page</li>
        <li><a href="/demo/control">/demo/control</a> - switch blocking modes</li>
    </ul>
</body>
</html>`

const controlPage = `<!DOCTYPE html>
<html>
<head>
    <title>Demo Site Control</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 640px; margin: 0 auto; padding: 20px; }
        .mode-btn { padding: 8px 16px; margin-right: 8px; border: none; border-radius: 4px; cursor: pointer; }
        .mode-btn.active { background: #007bff; color: white; }
        .mode-btn.inactive { background: #e9ecef; color: #333; }
        .desc { color: #666; }
    </style>
</head>
<body>
    <h1>Demo Site Control</h1>
    <p>Current mode: <strong>{{.Mode}}</strong></p>
    <p>
        {{range .Modes}}
        <button class="mode-btn {{if eq . $.Mode}}active{{else}}inactive{{end}}"
                onclick="setMode('{{.}}')">{{.}}</button>
        {{end}}
    </p>
    <ul class="desc">
        <li><strong>challenge</strong>: plain clients get the interstitial; the clearance cookie unlocks the article</li>
        <li><strong>hard</strong>: the interstitial is served unconditionally</li>
        <li><strong>open</strong>: the article is served to everyone</li>
    </ul>
    <script>
        function setMode(mode) {
            fetch('/demo/set-mode', {
                method: 'POST',
                headers: {'Content-Type': 'application/x-www-form-urlencoded'},
                body: 'mode=' + encodeURIComponent(mode)
            }).then(function () { location.reload(); });
        }
    </script>
</body>
</html>`
