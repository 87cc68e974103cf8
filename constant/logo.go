package constant

// Logo is the banner shown in the root command help.
const Logo = `
     _                 _
 ___(_)_ __ ___  _ __ | | __ _ _   _
/ __| | '_ ' _ \| '_ \| |/ _' | | | |
\__ \ | | | | | | |_) | | (_| | |_| |
|___/_|_| |_| |_| .__/|_|\__,_|\__, |
                |_|            |___/`
